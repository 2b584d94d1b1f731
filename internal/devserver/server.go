// Package devserver is an in-memory implementation of the Real Life API for
// local development and tests.
package devserver

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/reallife-app/reallife/internal/api"
	"github.com/reallife-app/reallife/internal/community"
	"github.com/reallife-app/reallife/internal/intents"
)

type user struct {
	id           string
	username     string
	passwordHash []byte
	email        string
	profile      api.ProfileInfo
	intents      *intents.Record
	joined       map[string]bool
}

// Server holds users, communities and memberships in memory.
type Server struct {
	mu          sync.RWMutex
	users       map[string]*user // by username
	byID        map[string]*user
	communities []community.Community
	failJoins   map[string]bool

	secret   []byte
	tokenTTL time.Duration
	limiter  *limiterStore
	log      *zap.Logger
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithSecret sets the HS256 signing key.
func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

// WithTokenTTL sets how long issued access tokens stay valid.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRateLimit allows perMinute requests per client IP with the given
// burst. Zero disables limiting.
func WithRateLimit(perMinute, burst int) Option {
	return func(s *Server) {
		if perMinute <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = newLimiterStore(perMinute, burst)
	}
}

// WithClock overrides the clock used for token issue and validation.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithCommunities replaces the seeded communities.
func WithCommunities(cs []community.Community) Option {
	return func(s *Server) { s.communities = cs }
}

// WithFailingJoins makes joins of the given community ids fail with 500.
func WithFailingJoins(ids ...string) Option {
	return func(s *Server) {
		for _, id := range ids {
			s.failJoins[id] = true
		}
	}
}

// New creates a server seeded with one community per known category.
func New(opts ...Option) *Server {
	s := &Server{
		users:       map[string]*user{},
		byID:        map[string]*user{},
		communities: SeedCommunities(),
		failJoins:   map[string]bool{},
		secret:      []byte("reallife-dev-secret"),
		tokenTTL:    24 * time.Hour,
		log:         zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedCommunities returns the default community catalogue.
func SeedCommunities() []community.Community {
	seed := []struct{ name, category string }{
		{"Morning Runners", community.CategorySport},
		{"Padel Partners", community.CategorySport},
		{"Board Game Night", community.CategorySocial},
		{"Startup Founders", community.CategoryEntrepreneurship},
		{"Product Managers", community.CategoryProfessionals},
		{"Techno Lovers", community.CategoryNightlife},
		{"Open Air Concerts", community.CategoryEvents},
		{"Urban Sketchers", "art"},
	}
	out := make([]community.Community, len(seed))
	for i, c := range seed {
		out[i] = community.Community{ID: uuid.NewString(), Name: c.name, Category: c.category}
	}
	return out
}

// AddUser registers a user with a bcrypt-hashed password.
func (s *Server) AddUser(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return fmt.Errorf("user %q already exists", username)
	}
	u := &user{
		id:           uuid.NewString(),
		username:     username,
		passwordHash: hash,
		profile:      api.ProfileInfo{DisplayName: username},
		joined:       map[string]bool{},
	}
	s.users[username] = u
	s.byID[u.id] = u
	return nil
}

// Communities returns a copy of the catalogue.
func (s *Server) Communities() []community.Community {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]community.Community, len(s.communities))
	copy(out, s.communities)
	return out
}

// Joined returns the community ids a user has joined, sorted.
func (s *Server) Joined(username string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil
	}
	var ids []string
	for id := range u.joined {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Intents returns the intents stored for a user, or nil.
func (s *Server) Intents(username string) *intents.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok || u.intents == nil {
		return nil
	}
	rec := *u.intents
	return &rec
}

// Handler returns the HTTP API rooted at /api.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	if s.limiter != nil {
		r.Use(s.limiter.middleware(s.log))
	}

	a := r.PathPrefix("/api").Subrouter()
	a.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	a.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	a.HandleFunc("/me", s.authenticate(s.handleGetMe)).Methods(http.MethodGet)
	a.HandleFunc("/me", s.authenticate(s.handlePutMe)).Methods(http.MethodPut)
	a.HandleFunc("/communities", s.authenticate(s.handleCommunities)).Methods(http.MethodGet)
	a.HandleFunc("/communities/my", s.authenticate(s.handleMyCommunities)).Methods(http.MethodGet)
	a.HandleFunc("/communities/{id}/join", s.authenticate(s.handleJoin)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
