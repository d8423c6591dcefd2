package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/server/services"
	"github.com/gin-gonic/gin"
)

type workoutForm struct {
	Date  string  `form:"date" json:"date"`
	Notes *string `form:"notes" json:"notes"`
}

// setForm takes rpe as text so that an empty field means "not given".
type setForm struct {
	ExerciseID string  `form:"exercise_id" json:"exercise_id"`
	Reps       int     `form:"reps" json:"reps"`
	Weight     float64 `form:"weight" json:"weight"`
	RPE        string  `form:"rpe" json:"rpe"`
}

func (f setForm) input() (services.SetInput, error) {
	in := services.SetInput{ExerciseID: f.ExerciseID, Reps: f.Reps, Weight: f.Weight}
	if v := strings.TrimSpace(f.RPE); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, common.ValidationError("RPE must be a whole number")
		}
		in.RPE = &n
	}
	return in, nil
}

func workoutPath(id string) string {
	return "/workouts/" + id
}

func (s *Server) listWorkouts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	p, err := s.svc.Workouts.List(c.Request.Context(), CurrentUser(c).ID, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) createWorkout(c *gin.Context) {
	var f workoutForm
	if !bindForm(c, &f) {
		return
	}
	w, err := s.svc.Workouts.Create(c.Request.Context(), CurrentUser(c).ID, f.Date, f.Notes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, workoutPath(w.ID))
}

func (s *Server) getWorkout(c *gin.Context) {
	d, err := s.svc.Workouts.Get(c.Request.Context(), CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) updateWorkout(c *gin.Context) {
	var f workoutForm
	if !bindForm(c, &f) {
		return
	}
	id := c.Param("id")
	if err := s.svc.Workouts.Update(c.Request.Context(), CurrentUser(c).ID, id, f.Date, f.Notes); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, workoutPath(id))
}

func (s *Server) deleteWorkout(c *gin.Context) {
	if err := s.svc.Workouts.Delete(c.Request.Context(), CurrentUser(c).ID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/workouts")
}

func (s *Server) addLog(c *gin.Context) {
	var f setForm
	if !bindForm(c, &f) {
		return
	}
	in, err := f.input()
	if err != nil {
		writeError(c, err)
		return
	}
	id := c.Param("id")
	if _, err := s.svc.Workouts.AddLog(c.Request.Context(), CurrentUser(c).ID, id, in); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, workoutPath(id))
}

func (s *Server) updateLog(c *gin.Context) {
	var f setForm
	if !bindForm(c, &f) {
		return
	}
	in, err := f.input()
	if err != nil {
		writeError(c, err)
		return
	}
	id := c.Param("id")
	if err := s.svc.Workouts.UpdateLog(c.Request.Context(), CurrentUser(c).ID, id, c.Param("log_id"), in); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, workoutPath(id))
}

func (s *Server) deleteLog(c *gin.Context) {
	id := c.Param("id")
	if err := s.svc.Workouts.DeleteLog(c.Request.Context(), CurrentUser(c).ID, id, c.Param("log_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, workoutPath(id))
}

func (s *Server) shareWorkout(c *gin.Context) {
	id := c.Param("id")
	token, err := s.svc.Workouts.Share(c.Request.Context(), CurrentUser(c).ID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"share_token": token, "url": "/shared/" + token})
}

func (s *Server) unshareWorkout(c *gin.Context) {
	id := c.Param("id")
	if err := s.svc.Workouts.Unshare(c.Request.Context(), CurrentUser(c).ID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, workoutPath(id))
}

func (s *Server) sharedWorkout(c *gin.Context) {
	w, err := s.svc.Workouts.Shared(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}
