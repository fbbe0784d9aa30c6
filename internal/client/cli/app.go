package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/passvault/internal/client/config"
	"github.com/dmitrijs2005/passvault/internal/client/rest"
	"github.com/dmitrijs2005/passvault/internal/client/session"
	"github.com/dmitrijs2005/passvault/internal/generator"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// API is the part of rest.Client the app uses.
type API interface {
	Register(ctx context.Context, name, email, password string) (*rest.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*rest.AuthResponse, error)
	ChangePassword(ctx context.Context, current, next string) error
	DeleteAccount(ctx context.Context) error
	Me(ctx context.Context) (*rest.User, error)
	ListPasswords(ctx context.Context) ([]rest.Credential, error)
	SavePassword(ctx context.Context, product, login, password string) (*rest.Credential, bool, error)
	DeletePassword(ctx context.Context, id string) error
	SetToken(token string)
}

type SessionStore interface {
	Save(ctx context.Context, sess session.Session) error
	Load(ctx context.Context) (*session.Session, error)
	Clear(ctx context.Context) error
}

type PasswordGenerator interface {
	Generate(length int) (string, error)
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	api      API
	sessions SessionStore
	gen      PasswordGenerator
	reader   *bufio.Reader
	out      io.Writer
	closeFn  func() error

	user          *rest.User
	Mode          Mode
	lastGenerated string
	listed        []rest.Credential
}

// NewApp opens the session store and builds an App reading from stdin and
// writing to stdout.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, err := session.Open(ctx, c.SessionDB)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	a := newApp(c, logger, rest.New(c.ServerURL, c.RequestTimeout), store, generator.Default(), os.Stdin, os.Stdout)
	a.closeFn = store.Close
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, api API, store SessionStore, gen PasswordGenerator, in io.Reader, out io.Writer) *App {
	return &App{
		config:   c,
		logger:   logger,
		api:      api,
		sessions: store,
		gen:      gen,
		reader:   bufio.NewReader(in),
		out:      out,
		closeFn:  func() error { return nil },
	}
}

// Run restores a saved session and serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.closeFn(); err != nil {
			a.logger.Warn(ctx, "Closing session store", "error", err)
		}
	}()

	a.println("Welcome to PassVault (type 'help' for commands)")
	a.restoreSession(ctx)
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) getStatus() string {
	s := ""
	if a.user != nil {
		s = a.user.Email + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.logger.Info(ctx, "Switched mode", "mode", mode)
	}
}

// track updates Mode from the outcome of a server call and passes err on.
func (a *App) track(ctx context.Context, err error) error {
	var apiErr *rest.APIError
	switch {
	case errors.Is(err, rest.ErrUnavailable):
		a.setMode(ctx, ModeOffline)
	case err == nil, errors.As(err, &apiErr):
		a.setMode(ctx, ModeOnline)
	}
	return err
}

func (a *App) restoreSession(ctx context.Context) {
	sess, err := a.sessions.Load(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return
	}
	if err != nil {
		a.logger.Warn(ctx, "Loading saved session", "error", err)
		return
	}

	a.api.SetToken(sess.Token)
	u, err := a.api.Me(ctx)
	switch {
	case a.track(ctx, err) == nil:
		a.user = u
		a.println("Logged in as", u.Email)
	case errors.Is(err, rest.ErrUnavailable):
		a.user = &rest.User{ID: sess.UserID, Email: sess.Email, Name: sess.Name}
		a.println("Server unavailable, using saved session for", sess.Email)
	case rest.IsStatus(err, http.StatusUnauthorized), rest.IsStatus(err, http.StatusNotFound):
		a.forgetSession(ctx)
		a.println("Saved session expired, please log in.")
	default:
		a.logger.Warn(ctx, "Restoring session", "error", err)
	}
}

func (a *App) rememberSession(ctx context.Context, res *rest.AuthResponse) {
	a.user = &res.User
	a.listed = nil
	err := a.sessions.Save(ctx, session.Session{
		Token:  res.Token,
		UserID: res.User.ID,
		Email:  res.User.Email,
		Name:   res.User.Name,
	})
	if err != nil {
		a.logger.Warn(ctx, "Saving session", "error", err)
	}
}

func (a *App) forgetSession(ctx context.Context) {
	a.api.SetToken("")
	a.user = nil
	a.listed = nil
	if err := a.sessions.Clear(ctx); err != nil {
		a.logger.Warn(ctx, "Clearing session", "error", err)
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
