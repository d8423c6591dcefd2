package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/dmitrijs2005/liftlog/internal/server/services"
	"github.com/gin-gonic/gin"
)

type exerciseForm struct {
	Name        string `form:"name" json:"name"`
	Category    string `form:"category" json:"category"`
	MuscleGroup string `form:"muscle_group" json:"muscle_group"`
	Equipment   string `form:"equipment" json:"equipment"`
}

func (f exerciseForm) input() services.ExerciseInput {
	return services.ExerciseInput{Name: f.Name, Category: f.Category, MuscleGroup: f.MuscleGroup, Equipment: f.Equipment}
}

func (s *Server) listExercises(c *gin.Context) {
	list, err := s.svc.Exercises.List(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercises": list, "categories": models.Categories})
}

func (s *Server) createExercise(c *gin.Context) {
	var f exerciseForm
	if !bindForm(c, &f) {
		return
	}
	if _, err := s.svc.Exercises.Create(c.Request.Context(), CurrentUser(c).ID, f.input()); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/exercises")
}

func (s *Server) updateExercise(c *gin.Context) {
	var f exerciseForm
	if !bindForm(c, &f) {
		return
	}
	if err := s.svc.Exercises.Update(c.Request.Context(), CurrentUser(c).ID, c.Param("id"), f.input()); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/exercises")
}

func (s *Server) deleteExercise(c *gin.Context) {
	if err := s.svc.Exercises.Delete(c.Request.Context(), CurrentUser(c).ID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/exercises")
}
