package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	loginPath = "/auth/login"
	setupPath = "/auth/setup"
)

func (s *Server) routes() {
	r := s.engine

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": common.Version})
	})
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	r.GET(loginPath, s.OptionalAuthUser(), s.loginPage)
	r.POST(loginPath, s.login)
	r.GET(setupPath, s.setupPage)
	r.POST(setupPath, s.setup)
	r.POST("/auth/logout", s.logout)
	r.GET("/shared/:token", s.sharedWorkout)

	auth := r.Group("/", s.AuthUser())
	{
		auth.GET("/", s.dashboard)
		auth.GET("/settings", s.settings)
		auth.POST("/settings/password", s.changePassword)
		auth.GET("/users", s.listUsers)

		auth.GET("/exercises", s.listExercises)
		auth.POST("/exercises", s.createExercise)
		auth.POST("/exercises/:id", s.updateExercise)
		auth.POST("/exercises/:id/delete", s.deleteExercise)

		auth.GET("/workouts", s.listWorkouts)
		auth.POST("/workouts", s.createWorkout)
		auth.GET("/workouts/:id", s.getWorkout)
		auth.POST("/workouts/:id", s.updateWorkout)
		auth.POST("/workouts/:id/delete", s.deleteWorkout)
		auth.POST("/workouts/:id/logs", s.addLog)
		auth.POST("/workouts/:id/logs/:log_id", s.updateLog)
		auth.POST("/workouts/:id/logs/:log_id/delete", s.deleteLog)
		auth.POST("/workouts/:id/share", s.shareWorkout)
		auth.POST("/workouts/:id/unshare", s.unshareWorkout)

		auth.GET("/stats", s.stats)
		auth.GET("/stats/prs", s.allPRs)
		auth.GET("/stats/exercise/:id", s.exerciseHistory)

		auth.POST("/export", s.export)
	}

	admin := r.Group("/users", s.AdminUser())
	{
		admin.GET("/new", s.newUserPage)
		admin.POST("/new", s.createUser)
		admin.POST("/:id/delete", s.deleteUser)
		admin.POST("/:id/promote", s.promoteUser)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}
