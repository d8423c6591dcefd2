package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/gin-gonic/gin"
)

type credentialsForm struct {
	UserName string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type passwordForm struct {
	Current string `form:"current_password" json:"current_password"`
	New     string `form:"new_password" json:"new_password"`
	Confirm string `form:"confirm_password" json:"confirm_password"`
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, token, int(s.opts.CookieTTL.Seconds()), "/", "", s.opts.CookieSecure, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookieName, "", -1, "/", "", s.opts.CookieSecure, true)
}

func (s *Server) loginPage(c *gin.Context) {
	if _, ok := OptionalUser(c); ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	needed, err := s.svc.Accounts.NeedsSetup(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if needed {
		c.Redirect(http.StatusSeeOther, setupPath)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": "login"})
}

func (s *Server) login(c *gin.Context) {
	var f credentialsForm
	if !bindForm(c, &f) {
		return
	}

	token, _, err := s.svc.Accounts.Login(c.Request.Context(), f.UserName, f.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidLogin})
			return
		}
		writeError(c, err)
		return
	}

	s.setSessionCookie(c, token)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) setupPage(c *gin.Context) {
	needed, err := s.svc.Accounts.NeedsSetup(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if !needed {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": "setup"})
}

func (s *Server) setup(c *gin.Context) {
	var f credentialsForm
	if !bindForm(c, &f) {
		return
	}

	token, _, err := s.svc.Accounts.Setup(c.Request.Context(), f.UserName, f.Password)
	if errors.Is(err, common.ErrorForbidden) {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	s.setSessionCookie(c, token)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c *gin.Context) {
	if token, err := c.Cookie(common.SessionCookieName); err == nil && token != "" {
		if err := s.svc.Accounts.Logout(c.Request.Context(), token); err != nil {
			s.logger.Error(c.Request.Context(), "logout failed", "error", err)
		}
	}
	s.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, loginPath)
}

func (s *Server) settings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c), "version": common.Version})
}

func (s *Server) changePassword(c *gin.Context) {
	var f passwordForm
	if !bindForm(c, &f) {
		return
	}
	if err := s.svc.Accounts.ChangePassword(c.Request.Context(), CurrentUser(c), f.Current, f.New, f.Confirm); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}
