package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/passvault/internal/client/config"
	"github.com/dmitrijs2005/passvault/internal/client/rest"
	"github.com/dmitrijs2005/passvault/internal/client/session"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

type fakeAPI struct {
	token string
	calls []string

	authRes *rest.AuthResponse
	authErr error

	registerArgs []string
	loginArgs    []string
	changeArgs   []string

	changeErr error
	deleteErr error

	me    *rest.User
	meErr error

	items   []rest.Credential
	listErr error

	saveArgs    []string
	saveCreated bool
	saveErr     error

	deletedID string
	rmErr     error
}

func (f *fakeAPI) SetToken(token string) { f.token = token }

func (f *fakeAPI) Register(ctx context.Context, name, email, password string) (*rest.AuthResponse, error) {
	f.calls = append(f.calls, "register")
	f.registerArgs = []string{name, email, password}
	if f.authErr != nil {
		return nil, f.authErr
	}
	f.token = f.authRes.Token
	return f.authRes, nil
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*rest.AuthResponse, error) {
	f.calls = append(f.calls, "login")
	f.loginArgs = []string{email, password}
	if f.authErr != nil {
		return nil, f.authErr
	}
	f.token = f.authRes.Token
	return f.authRes, nil
}

func (f *fakeAPI) ChangePassword(ctx context.Context, current, next string) error {
	f.calls = append(f.calls, "passwd")
	f.changeArgs = []string{current, next}
	return f.changeErr
}

func (f *fakeAPI) DeleteAccount(ctx context.Context) error {
	f.calls = append(f.calls, "deleteaccount")
	return f.deleteErr
}

func (f *fakeAPI) Me(ctx context.Context) (*rest.User, error) {
	f.calls = append(f.calls, "me")
	return f.me, f.meErr
}

func (f *fakeAPI) ListPasswords(ctx context.Context) ([]rest.Credential, error) {
	f.calls = append(f.calls, "list")
	return f.items, f.listErr
}

func (f *fakeAPI) SavePassword(ctx context.Context, product, login, password string) (*rest.Credential, bool, error) {
	f.calls = append(f.calls, "save")
	f.saveArgs = []string{product, login, password}
	if f.saveErr != nil {
		return nil, false, f.saveErr
	}
	return &rest.Credential{ID: "new", Product: product, Login: login, Password: password}, f.saveCreated, nil
}

func (f *fakeAPI) DeletePassword(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete")
	f.deletedID = id
	return f.rmErr
}

type fakeStore struct {
	sess    *session.Session
	loadErr error
	cleared int
}

func (s *fakeStore) Save(ctx context.Context, sess session.Session) error {
	s.sess = &sess
	return nil
}

func (s *fakeStore) Load(ctx context.Context) (*session.Session, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.sess == nil {
		return nil, session.ErrNoSession
	}
	return s.sess, nil
}

func (s *fakeStore) Clear(ctx context.Context) error {
	s.sess = nil
	s.cleared++
	return nil
}

type fakeGen struct {
	pw      string
	err     error
	lengths []int
}

func (g *fakeGen) Generate(length int) (string, error) {
	g.lengths = append(g.lengths, length)
	return g.pw, g.err
}

type testEnv struct {
	app   *App
	api   *fakeAPI
	store *fakeStore
	gen   *fakeGen
	out   *bytes.Buffer
}

// newTestApp builds an App reading the given lines as user input. Password
// prompts read from the same input since stdin is not a terminal here.
func newTestApp(t *testing.T, lines ...string) *testEnv {
	t.Helper()

	origTerm := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = origTerm })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	env := &testEnv{
		api:   &fakeAPI{},
		store: &fakeStore{},
		gen:   &fakeGen{pw: "Swift.Phoenix1000!AA"},
		out:   &bytes.Buffer{},
	}
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	logger := logging.New(io.Discard, "production", "error")
	env.app = newApp(cfg, logger, env.api, env.store, env.gen, in, env.out)
	return env
}

// loggedIn marks the app as having an active session.
func (e *testEnv) loggedIn() *testEnv {
	e.app.user = &rest.User{ID: "u1", Email: "ann@example.com", Name: "Ann"}
	e.api.token = "tok"
	e.store.sess = &session.Session{Token: "tok", UserID: "u1", Email: "ann@example.com", Name: "Ann"}
	return e
}
