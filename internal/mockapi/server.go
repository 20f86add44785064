package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/matchdesk/internal/client/models"
	"github.com/dmitrijs2005/matchdesk/internal/logging"
)

// APIPrefix is where the API is mounted, matching the default client base URL.
const APIPrefix = "/api/v1"

type Config struct {
	Secret   []byte
	TokenTTL time.Duration
	Profiles int
	Seed     uint64
	// Reference is the "today" profile birth dates are computed from.
	Reference time.Time
	// AccessLog enables chi's request logger on stderr.
	AccessLog bool
}

func DefaultConfig() Config {
	return Config{
		Secret:    []byte("matchdesk-dev-secret"),
		TokenTTL:  24 * time.Hour,
		Profiles:  100,
		Seed:      42,
		Reference: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

type Server struct {
	cfg      Config
	log      logging.Logger
	router   *chi.Mux
	accounts *accounts

	profiles []models.User
	byID     map[int64]models.User
	stats    dashboardStats

	mu   sync.Mutex
	hits map[string]int
}

func NewServer(cfg Config, log logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	def := DefaultConfig()
	if len(cfg.Secret) == 0 {
		cfg.Secret = def.Secret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = def.TokenTTL
	}
	if cfg.Profiles <= 0 {
		cfg.Profiles = def.Profiles
	}
	if cfg.Reference.IsZero() {
		cfg.Reference = def.Reference
	}

	profiles := generateProfiles(cfg.Profiles, cfg.Seed, cfg.Reference)
	byID := make(map[int64]models.User, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	s := &Server{
		cfg:      cfg,
		log:      log.With("component", "mockapi"),
		router:   chi.NewRouter(),
		accounts: newAccounts(),
		profiles: profiles,
		byID:     byID,
		stats:    computeStats(profiles),
		hits:     map[string]int{},
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	if s.cfg.AccessLog {
		s.router.Use(middleware.Logger)
	}
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.countHits)
}

func (s *Server) setupRoutes() {
	s.router.Route(APIPrefix, func(r chi.Router) {
		r.Post("/login/", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/users/", s.handleUsers)
			r.Get("/matches/", s.handleMatches)
			r.Get("/dashboard/stats/", s.handleStats)
		})
	})
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found.")
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Hits returns how many requests reached path, e.g. "/api/v1/users/".
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Deactivate blocks further logins of username.
func (s *Server) Deactivate(username string) bool {
	return s.accounts.deactivate(username)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "serving", "addr", ln.Addr().String(), "profiles", len(s.profiles))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info(ctx, "stopped")
	return nil
}

func (s *Server) countHits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// requestID fills X-Request-Id with a UUID when the caller sent none, so
// middleware.RequestID picks it up instead of its counter-based default.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(middleware.RequestIDHeader) == "" {
			r.Header.Set(middleware.RequestIDHeader, uuid.NewString())
		}
		w.Header().Set(middleware.RequestIDHeader, r.Header.Get(middleware.RequestIDHeader))
		next.ServeHTTP(w, r)
	})
}
