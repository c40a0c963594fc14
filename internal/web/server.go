// Package web is the UI boundary: a chi server whose handlers drive the
// ingestion pipeline (normalizers, fetcher), the analysis dispatcher, and
// the result renderer, one blocking request per interaction.
package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/datalens-ai/datalens/internal/agent"
	"github.com/datalens-ai/datalens/internal/cache"
	"github.com/datalens-ai/datalens/internal/config"
	"github.com/datalens-ai/datalens/internal/fetch"
	"github.com/datalens-ai/datalens/internal/session"
)

const sessionCookie = "datalens_session"

// Server wires the pipeline behind HTTP handlers.
type Server struct {
	router    *chi.Mux
	cfg       *config.Global
	logger    *slog.Logger
	sessions  *session.Manager
	fetcher   *fetch.Fetcher
	respCache *cache.Cache

	// newAgent builds the per-request agent client from the UI's
	// provider/model/key selection. Tests swap in a fake.
	newAgent func(provider, model, apiKey string) (agent.Client, error)

	answerDelay time.Duration
}

// New assembles the server and its routes.
func New(cfg *config.Global, logger *slog.Logger) *Server {
	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second}

	s := &Server{
		router:    chi.NewRouter(),
		cfg:       cfg,
		logger:    logger,
		sessions:  session.NewManager(time.Duration(cfg.SessionIdleMin) * time.Minute),
		fetcher:   fetch.New(httpClient, logger),
		respCache: cache.New(),
		newAgent: func(provider, model, apiKey string) (agent.Client, error) {
			p, err := agent.LookupProvider(provider)
			if err != nil {
				return nil, err
			}
			return agent.NewOpenAIClient(p, model, apiKey)
		},
		answerDelay: time.Duration(cfg.AnswerDelayMs) * time.Millisecond,
	}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{AllowedOrigins: []string{"*"}}))

	s.router.Get("/healthz", s.health)
	s.router.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.index)
		r.Post("/upload", s.upload)
		r.Post("/sheet", s.selectSheet)
		r.Post("/fetch", s.fetchURL)
		r.Post("/analyze", s.analyze)
		r.Get("/charts/{kind}", s.chart)
		r.Post("/reset", s.reset)
	})
	return s
}

// Handler exposes the router for mounting and for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) providers() []agent.Provider { return agent.Providers() }

// Start runs the HTTP server until it fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	s.logger.Info("server listening", "addr", addr)
	return srv.ListenAndServe()
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}

// withSession attaches the caller's session, creating one (and its cookie)
// on first contact.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *session.Session
		if c, err := r.Cookie(sessionCookie); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				sess, _ = s.sessions.Get(id)
			}
		}
		if sess == nil {
			sess = s.sessions.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sess.ID.String(),
				Path:     "/",
				HttpOnly: true,
			})
		}
		next.ServeHTTP(w, r.WithContext(withSessionCtx(r.Context(), sess)))
	})
}
