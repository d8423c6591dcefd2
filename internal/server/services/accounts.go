package services

import (
	"context"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/logging"
	"github.com/dmitrijs2005/liftlog/internal/metrics"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
)

// AccountService ties credentials to sessions: login, first-run setup,
// password changes and the admin user-management actions.
type AccountService struct {
	credentials *CredentialService
	sessions    SessionManager
	logger      logging.Logger
	metrics     *metrics.Metrics
}

func NewAccountService(c *CredentialService, sm SessionManager, l logging.Logger, m *metrics.Metrics) *AccountService {
	return &AccountService{credentials: c, sessions: sm, logger: l.With("module", "accounts"), metrics: m}
}

// Login returns a new session token. Wrong username and wrong password are
// the same common.ErrorUnauthorized.
func (s *AccountService) Login(ctx context.Context, userName, password string) (string, *models.User, error) {
	user, err := s.credentials.Verify(ctx, userName, password)
	if err != nil {
		s.metrics.Login(metrics.LoginError)
		s.logger.Error(ctx, "credential check failed", "error", err)
		return "", nil, err
	}
	if user == nil {
		s.metrics.Login(metrics.LoginFailure)
		s.logger.Info(ctx, "login rejected")
		return "", nil, common.ErrorUnauthorized
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		s.metrics.Login(metrics.LoginError)
		return "", nil, err
	}
	s.metrics.Login(metrics.LoginSuccess)
	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return token, user, nil
}

// NeedsSetup reports whether no account exists yet.
func (s *AccountService) NeedsSetup(ctx context.Context) (bool, error) {
	n, err := s.credentials.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Setup creates the first account as admin and logs it in. It is refused
// once any account exists.
func (s *AccountService) Setup(ctx context.Context, userName, password string) (string, *models.User, error) {
	needed, err := s.NeedsSetup(ctx)
	if err != nil {
		return "", nil, err
	}
	if !needed {
		return "", nil, common.ErrorForbidden
	}

	user, err := s.credentials.Create(ctx, userName, password, models.RoleAdmin)
	if err != nil {
		return "", nil, err
	}
	s.logger.Info(ctx, "initial admin created", "user_id", user.ID)

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ChangePassword checks the current password and then signs out every
// other session of the user.
func (s *AccountService) ChangePassword(ctx context.Context, id models.Identity, current, next, confirm string) error {
	if next != confirm {
		return common.ValidationError("New passwords do not match")
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}

	user, err := s.credentials.Verify(ctx, id.UserName, current)
	if err != nil {
		return err
	}
	if user == nil || user.ID != id.ID {
		return common.ValidationError("Current password is incorrect")
	}

	ok, err := s.credentials.ChangePassword(ctx, id.ID, next)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorNotFound
	}

	if err := s.sessions.DeleteAllForUserExcept(ctx, id.ID, id.SessionToken); err != nil {
		return err
	}
	s.logger.Info(ctx, "password changed", "user_id", id.ID)
	return nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.credentials.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// CreateUser adds a regular account on behalf of an admin.
func (s *AccountService) CreateUser(ctx context.Context, admin models.AdminIdentity, userName, password string) (*models.User, error) {
	user, err := s.credentials.Create(ctx, userName, password, models.RoleUser)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user created", "user_id", user.ID, "by", admin.ID)
	return user, nil
}

// DeleteUser refuses to let an admin delete their own account.
func (s *AccountService) DeleteUser(ctx context.Context, admin models.AdminIdentity, userID string) error {
	if userID == admin.ID {
		return common.BadRequestError("You cannot delete your own account")
	}
	if err := found(s.credentials.Delete(ctx, userID)); err != nil {
		return err
	}
	s.logger.Info(ctx, "user deleted", "user_id", userID, "by", admin.ID)
	return nil
}

func (s *AccountService) PromoteUser(ctx context.Context, admin models.AdminIdentity, userID string) error {
	if err := found(s.credentials.UpdateRole(ctx, userID, models.RoleAdmin)); err != nil {
		return err
	}
	s.logger.Info(ctx, "user promoted", "user_id", userID, "by", admin.ID)
	return nil
}
