package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	identityKey = "liftlog.identity"
	adminKey    = "liftlog.admin"
)

// resolve turns the session cookie into an identity. The role always comes
// from the user row, never from the token.
func (s *Server) resolve(c *gin.Context) (models.Identity, bool) {
	token, err := c.Cookie(common.SessionCookieName)
	if err != nil || token == "" {
		return models.Identity{}, false
	}

	ctx := c.Request.Context()
	userID, ok, err := s.svc.Sessions.FindValid(ctx, token)
	if err != nil {
		s.logger.Error(ctx, "session lookup failed", "error", err)
		return models.Identity{}, false
	}
	if !ok {
		return models.Identity{}, false
	}

	user, err := s.svc.Credentials.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "user lookup failed", "error", err)
		}
		return models.Identity{}, false
	}

	return models.Identity{ID: user.ID, UserName: user.UserName, Role: user.Role, SessionToken: token}, true
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, loginPath)
	c.Abort()
}

// AuthUser requires a valid session and redirects to the login page
// otherwise.
func (s *Server) AuthUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := s.resolve(c)
		if !ok {
			redirectToLogin(c)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// OptionalAuthUser stores the identity when there is one and lets
// anonymous requests through.
func (s *Server) OptionalAuthUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := s.resolve(c); ok {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// AdminUser requires a valid session of an admin. Non-admins get 403.
func (s *Server) AdminUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := s.resolve(c)
		if !ok {
			redirectToLogin(c)
			return
		}
		if !id.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Set(identityKey, id)
		c.Set(adminKey, models.AdminIdentity{Identity: id})
		c.Next()
	}
}

// CurrentUser is only valid behind AuthUser or AdminUser.
func CurrentUser(c *gin.Context) models.Identity {
	return c.MustGet(identityKey).(models.Identity)
}

func OptionalUser(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// CurrentAdmin is only valid behind AdminUser.
func CurrentAdmin(c *gin.Context) models.AdminIdentity {
	return c.MustGet(adminKey).(models.AdminIdentity)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.HTTPRequest(route, status)

		args := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"ip", c.ClientIP(),
			"latency", time.Since(start).String(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			args = append(args, "errors", errs)
		}

		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error(ctx, "request", args...)
		case status >= http.StatusBadRequest:
			s.logger.Warn(ctx, "request", args...)
		default:
			s.logger.Info(ctx, "request", args...)
		}
	}
}
