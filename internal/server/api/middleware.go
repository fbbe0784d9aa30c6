package api

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// userIDFromContext returns the id stored by authenticate.
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// bearerToken extracts the token from an Authorization header. A value
// without the Bearer scheme is taken as the token itself.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	scheme, rest, _ := strings.Cut(header, " ")
	if strings.EqualFold(scheme, strings.TrimSpace(common.BearerPrefix)) {
		return strings.TrimSpace(rest)
	}
	return header
}

// authenticate rejects requests without a valid session token and puts the
// user id into the request context.
func (s *HTTPServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := bearerToken(r.Header.Get(common.AuthorizationHeader))
		if token == "" {
			s.metrics.ObserveAuth("token", "missing")
			writeMessage(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		res := s.users.Authenticate(token)
		switch res.Status {
		case auth.TokenValid:
		case auth.TokenExpired:
			s.metrics.ObserveAuth("token", "expired")
			writeMessage(w, http.StatusUnauthorized, "Token has expired")
			return
		default:
			s.metrics.ObserveAuth("token", "invalid")
			s.logger.Debug(ctx, "rejected token", "path", r.URL.Path)
			writeMessage(w, http.StatusUnauthorized, "Token is not valid")
			return
		}

		ctx = context.WithValue(ctx, userIDKey, res.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger logs one line per request once it completes.
func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info(r.Context(), "Request completed",
			"req_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"status", status,
			"bytes_written", ww.BytesWritten(),
			"latency", time.Since(start),
		)
	})
}

// recoverer turns a handler panic into a 500 with the usual JSON body.
func (s *HTTPServer) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error(r.Context(), "panic in handler",
					"req_id", middleware.GetReqID(r.Context()),
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				writeMessage(w, http.StatusInternalServerError, serverErrorMessage)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
