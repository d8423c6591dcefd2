package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.svc.Accounts.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "current": CurrentUser(c)})
}

func (s *Server) newUserPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "new_user"})
}

func (s *Server) createUser(c *gin.Context) {
	var f credentialsForm
	if !bindForm(c, &f) {
		return
	}
	if _, err := s.svc.Accounts.CreateUser(c.Request.Context(), CurrentAdmin(c), f.UserName, f.Password); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/users")
}

func (s *Server) deleteUser(c *gin.Context) {
	if err := s.svc.Accounts.DeleteUser(c.Request.Context(), CurrentAdmin(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/users")
}

func (s *Server) promoteUser(c *gin.Context) {
	if err := s.svc.Accounts.PromoteUser(c.Request.Context(), CurrentAdmin(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/users")
}
