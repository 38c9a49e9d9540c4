// Package devserver is a local implementation of the finance backend's
// REST contract, backed by SQLite. It serves `finan serve` and the
// client's end-to-end tests.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SessionCookie names the cookie holding the session token.
const SessionCookie = "finan_session"

const shutdownTimeout = 5 * time.Second

type ctxKey int

const userIDKey ctxKey = iota

// Server serves the backend API.
type Server struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces the clock that decides the current month.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server over db.
func New(db *DB, opts ...Option) *Server {
	s := &Server{
		db:     db,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Post("/password-hint", s.handlePasswordHint)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)

			r.Get("/dashboard-data", s.handleSummary)
			r.Get("/reports/monthly", s.handleMonthlyReport)

			r.Get("/transactions", s.handleListTransactions)
			r.Post("/transactions", s.handleCreateTransaction)
			r.Put("/transactions/{id}", s.handleUpdateTransaction)
			r.Delete("/transactions/{id}", s.handleDeleteTransaction)

			r.Get("/goals", s.handleListGoals)
			r.Post("/goals", s.handleCreateGoal)
			r.Put("/goals/{id}", s.handleUpdateGoal)

			r.Get("/budget", s.handleListBudget)
			r.Post("/budget", s.handleCreateBudget)
			r.Put("/budget", s.handleUpdateBudget)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dev backend listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down dev backend")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}

// requireUser rejects requests without a live session and stores the
// session's user id in the request context.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.sessionUser(r)
		if !ok {
			fail(w, http.StatusUnauthorized, "Não autenticado.")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func (s *Server) sessionUser(r *http.Request) (int, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return 0, false
	}
	userID, err := s.db.sessionUser(r.Context(), cookie.Value)
	if err != nil {
		return 0, false
	}
	return userID, true
}

func userID(r *http.Request) int {
	id, _ := r.Context().Value(userIDKey).(int)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type result struct {
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}

func ok(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, result{Success: true, Message: message})
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, result{Success: false, Message: message})
}

// internalError logs err and answers 500 without leaking it.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err)
	fail(w, http.StatusInternalServerError, "Erro interno do servidor.")
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
