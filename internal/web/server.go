// Package web serves the questionnaire as an HTML form. Respondent state
// travels in a signed cookie so any replica can serve any request.
package web

import (
	"context"
	"crypto/rand"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/ethiq/internal/questionbank"
	"github.com/abhisek/ethiq/internal/report"
	"github.com/abhisek/ethiq/internal/session"
	"github.com/abhisek/ethiq/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Commentator produces optional assessor commentary.
type Commentator interface {
	Comment(ctx context.Context, ev *session.Evaluation) (*report.Commentary, error)
}

// Options configures a Server. Bank and Secret are required unless noted.
type Options struct {
	Bank *questionbank.Bank

	// Evaluations, when set, receives every finalized evaluation.
	Evaluations store.EvaluationRepo

	// Commentator, when set, annotates saved evaluations in the background.
	// It needs Evaluations.
	Commentator Commentator

	// Secret signs respondent cookies. Empty means a random per-process key.
	Secret         []byte
	SessionTTL     time.Duration
	AllowedOrigins []string
	SecureCookies  bool

	Now func() time.Time
}

// Server is the web form surface.
type Server struct {
	bank        *questionbank.Bank
	evaluations store.EvaluationRepo
	commentator Commentator
	cookies     *cookieCodec
	origins     []string
	pages       *template.Template
	now         func() time.Time

	// background commentary jobs
	jobs sync.WaitGroup
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	if opts.Bank == nil {
		return nil, errors.New("web: question bank is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	if len(opts.Secret) == 0 {
		opts.Secret = make([]byte, 32)
		if _, err := rand.Read(opts.Secret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		log.Printf("web: no session secret configured; sessions will not survive a restart")
	}

	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		bank:        opts.Bank,
		evaluations: opts.Evaluations,
		commentator: opts.Commentator,
		cookies: &cookieCodec{
			secret: opts.Secret,
			ttl:    opts.SessionTTL,
			secure: opts.SecureCookies,
			now:    opts.Now,
		},
		origins: opts.AllowedOrigins,
		pages:   pages,
		now:     opts.Now,
	}, nil
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/", s.handleIndex)
	r.Post("/start", s.handleStart)
	r.Get("/questionnaire", s.handleQuestionnaire)
	r.Post("/submit", s.handleSubmit)
	r.Post("/reset", s.handleReset)
	r.Route("/results", func(rr chi.Router) {
		rr.Get("/", s.handleResults)
		rr.Get("/chart.png", s.handleChart)
		rr.Get("/report.pdf", s.handlePDF)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and waits for background commentary.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Wait()
	return err
}

// Wait blocks until background commentary jobs finish.
func (s *Server) Wait() { s.jobs.Wait() }
