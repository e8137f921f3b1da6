package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"researchmate/internal/analysis"
	"researchmate/internal/chat"
	"researchmate/internal/config"
	"researchmate/internal/plagiarism"
	"researchmate/internal/providers"
	"researchmate/internal/session"
)

// Server wires the HTTP surface over one session and the generation-backed
// services.
type Server struct {
	cfg        config.Config
	session    *session.Session
	analysis   *analysis.Service
	chat       *chat.Service
	plagiarism *plagiarism.Service
	router     *chi.Mux
}

func NewServer(cfg config.Config, gen providers.Generator) *Server {
	s := &Server{
		cfg:        cfg,
		session:    session.New(),
		analysis:   analysis.NewService(gen),
		chat:       chat.NewService(gen),
		plagiarism: plagiarism.NewService(gen),
		router:     chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Post("/analyze", s.handleAnalyze)
	r.Post("/chat", s.handleChat)
	r.Post("/plagiarism", s.handlePlagiarism)

	r.Get("/dashboard", s.handleDashboard)
	r.Get("/documents", s.handleDocuments)
	r.Post("/documents/select", s.handleSelectDocument)
	r.Post("/view", s.handleChangeView)

	r.Route("/citations", func(r chi.Router) {
		r.Get("/", s.handleListCitations)
		r.Get("/export", s.handleExportCitations)
		r.Post("/{id}/favorite", s.handleToggleFavorite)
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:              s.cfg.APIAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
