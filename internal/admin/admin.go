// Package admin implements liftlog-admin, the operator CLI that works on the
// database directly: account management, session cleanup and migrations.
package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/server"
	"github.com/dmitrijs2005/liftlog/internal/server/config"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/dmitrijs2005/liftlog/internal/server/services"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// loadConfig is a test seam for config.LoadEnvConfig.
var loadConfig = config.LoadEnvConfig

type env struct {
	config *config.Config
	store  *services.Store
	db     *sql.DB
}

func (e *env) close() {
	if e.db != nil {
		_ = e.db.Close()
	}
}

// open builds the config from the environment, applies the global flags and
// opens the migrated database.
func open(c *cli.Context) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if v := c.String("driver"); v != "" {
		cfg.DatabaseDriver = v
	}
	if v := c.String("dsn"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := c.String("session-strategy"); v != "" {
		cfg.SessionStrategy = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, db, err := server.OpenStore(c.Context, cfg, nil)
	if err != nil {
		return nil, err
	}
	return &env{config: cfg, store: st, db: db}, nil
}

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "liftlog-admin",
		Usage:   "LiftLog operator tool",
		Version: common.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "driver",
				Usage: "database driver: sqlite or pgx",
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "database DSN",
			},
			&cli.StringFlag{
				Name:  "session-strategy",
				Usage: "session back end to clean up: store or signed",
			},
		},
		Commands: []*cli.Command{
			createUserCommand(),
			setRoleCommand(),
			deleteUserCommand(),
			cleanupSessionsCommand(),
			migrateCommand(),
		},
	}
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:      "create-user",
		Usage:     "Create an account",
		ArgsUsage: "USERNAME",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "password (prompted when omitted)",
			},
			&cli.BoolFlag{
				Name:  "admin",
				Usage: "grant the admin role",
			},
		},
		Action: createUser,
	}
}

func setRoleCommand() *cli.Command {
	return &cli.Command{
		Name:      "set-role",
		Usage:     "Change an account's role",
		ArgsUsage: "USERNAME admin|user",
		Action:    setRole,
	}
}

func deleteUserCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete-user",
		Usage:     "Delete an account and everything it owns",
		ArgsUsage: "USERNAME",
		Action:    deleteUser,
	}
}

func cleanupSessionsCommand() *cli.Command {
	return &cli.Command{
		Name:   "cleanup-sessions",
		Usage:  "Remove expired sessions",
		Action: cleanupSessions,
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Apply pending schema migrations",
		Action: migrate,
	}
}

func promptPassword(c *cli.Context) (string, error) {
	if _, err := fmt.Fprint(c.App.ErrWriter, "Enter password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(c.App.ErrWriter)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func userArg(c *cli.Context) (string, error) {
	name := strings.TrimSpace(c.Args().First())
	if name == "" {
		return "", errors.New("username required")
	}
	return name, nil
}

func createUser(c *cli.Context) error {
	name, err := userArg(c)
	if err != nil {
		return err
	}

	password := c.String("password")
	if password == "" {
		if password, err = promptPassword(c); err != nil {
			return err
		}
	}

	role := models.RoleUser
	if c.Bool("admin") {
		role = models.RoleAdmin
	}

	e, err := open(c)
	if err != nil {
		return err
	}
	defer e.close()

	u, err := services.NewCredentialService(e.store).Create(c.Context, name, password, role)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(c.App.Writer, "created %s (%s) id=%s\n", u.UserName, u.Role, u.ID)
	return nil
}

func setRole(c *cli.Context) error {
	name, err := userArg(c)
	if err != nil {
		return err
	}
	role := models.Role(c.Args().Get(1))
	if !role.Valid() {
		return errors.New("role must be admin or user")
	}

	e, err := open(c)
	if err != nil {
		return err
	}
	defer e.close()

	creds := services.NewCredentialService(e.store)
	u, err := creds.FindByUsername(c.Context, name)
	if err != nil {
		return describe(err)
	}
	if _, err := creds.UpdateRole(c.Context, u.ID, role); err != nil {
		return describe(err)
	}
	fmt.Fprintf(c.App.Writer, "%s is now %s\n", u.UserName, role)
	return nil
}

func deleteUser(c *cli.Context) error {
	name, err := userArg(c)
	if err != nil {
		return err
	}

	e, err := open(c)
	if err != nil {
		return err
	}
	defer e.close()

	creds := services.NewCredentialService(e.store)
	u, err := creds.FindByUsername(c.Context, name)
	if err != nil {
		return describe(err)
	}
	if _, err := creds.Delete(c.Context, u.ID); err != nil {
		return describe(err)
	}
	fmt.Fprintf(c.App.Writer, "deleted %s\n", u.UserName)
	return nil
}

func cleanupSessions(c *cli.Context) error {
	e, err := open(c)
	if err != nil {
		return err
	}
	defer e.close()

	n, err := server.NewSessionManager(e.config, e.store, nil).CleanupExpired(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "removed %d expired sessions\n", n)
	return nil
}

func migrate(c *cli.Context) error {
	e, err := open(c)
	if err != nil {
		return err
	}
	defer e.close()

	fmt.Fprintf(c.App.Writer, "schema is up to date (%s)\n", e.config.DatabaseDriver)
	return nil
}

// describe turns domain errors into messages fit for a terminal.
func describe(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return errors.New("no such user")
	case errors.Is(err, common.ErrorConflict):
		return errors.New("username already exists")
	case errors.Is(err, common.ErrorValidation):
		return errors.New(common.Reason(err))
	}
	return err
}

// Run executes the CLI with args (including the program name).
func Run(ctx context.Context, args []string) error {
	return App().RunContext(ctx, args)
}
