package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/metrics"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/services"
)

// Tokens understood by fakeUsers.Authenticate.
const (
	tokenAlice   = "valid-alice"
	tokenExpired = "expired"
)

type fakeUsers struct {
	registerRes *services.AuthResult
	loginRes    *services.AuthResult
	me          *models.User
	err         error

	gotUserID   string
	gotCurrent  string
	gotNew      string
	gotRegister [3]string
}

func (f *fakeUsers) Register(_ context.Context, name, email, password string) (*services.AuthResult, error) {
	f.gotRegister = [3]string{name, email, password}
	if f.err != nil {
		return nil, f.err
	}
	return f.registerRes, nil
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.AuthResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.loginRes, nil
}

func (f *fakeUsers) ChangePassword(_ context.Context, userID, current, newPassword string) error {
	f.gotUserID, f.gotCurrent, f.gotNew = userID, current, newPassword
	return f.err
}

func (f *fakeUsers) Deactivate(_ context.Context, userID string) error {
	f.gotUserID = userID
	return f.err
}

func (f *fakeUsers) Me(_ context.Context, userID string) (*models.User, error) {
	f.gotUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.me, nil
}

func (f *fakeUsers) Authenticate(token string) auth.TokenResult {
	switch {
	case token == tokenExpired:
		return auth.TokenResult{Status: auth.TokenExpired}
	case strings.HasPrefix(token, "valid-"):
		return auth.TokenResult{Status: auth.TokenValid, UserID: strings.TrimPrefix(token, "valid-"), ExpiresAt: time.Now().Add(time.Hour)}
	default:
		return auth.TokenResult{Status: auth.TokenInvalid}
	}
}

type fakeCredentials struct {
	items   []*models.Credential
	saved   *models.Credential
	created bool
	err     error
	panic   bool

	gotOwner string
	gotID    string
	gotSave  [3]string
}

func (f *fakeCredentials) List(_ context.Context, ownerID string) ([]*models.Credential, error) {
	f.gotOwner = ownerID
	if f.panic {
		panic("boom")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeCredentials) Upsert(_ context.Context, ownerID, product, login, password string) (*models.Credential, bool, error) {
	f.gotOwner = ownerID
	f.gotSave = [3]string{product, login, password}
	if f.err != nil {
		return nil, false, f.err
	}
	return f.saved, f.created, nil
}

func (f *fakeCredentials) Delete(_ context.Context, ownerID, id string) error {
	f.gotOwner, f.gotID = ownerID, id
	return f.err
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newTestServer(t *testing.T, us *fakeUsers, cs *fakeCredentials, db Pinger) (*HTTPServer, http.Handler) {
	t.Helper()
	l := logging.New(io.Discard, "test", "debug")
	s := NewHTTPServer(Options{Address: "127.0.0.1:0"}, l, us, cs, db, metrics.New())
	return s, s.Handler()
}

func do(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
