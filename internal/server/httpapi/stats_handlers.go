package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) dashboard(c *gin.Context) {
	d, err := s.svc.Stats.Dashboard(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c), "stats": d.Stats, "recent_prs": d.RecentPRs})
}

func (s *Server) stats(c *gin.Context) {
	st, err := s.svc.Stats.Summary(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) allPRs(c *gin.Context) {
	prs, err := s.svc.Records.AllPRs(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	if prs == nil {
		prs = []models.PersonalRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"records": prs})
}

func (s *Server) exerciseHistory(c *gin.Context) {
	h, err := s.svc.Stats.ExerciseHistory(c.Request.Context(), CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *Server) export(c *gin.Context) {
	res, err := s.svc.Export.Export(c.Request.Context(), CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
