// File: internal/infra/web/server.go
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ai-research-orchestrator/internal/infra/logging"
	"ai-research-orchestrator/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server exposes the HTTP API: problem-discovery chat, job intake and
// queries, session summary, the Slack events webhook, plus /health and
// /metrics.
type Server struct {
	jobUC     *usecase.JobUseCase
	summaryUC *usecase.SummaryUseCase
	convUC    *usecase.ConversationUseCase
	chatUC    *usecase.ChatUseCase
	auth      *AuthManager
	log       zerolog.Logger

	httpSrv *http.Server
}

func NewServer(
	jobUC *usecase.JobUseCase,
	summaryUC *usecase.SummaryUseCase,
	convUC *usecase.ConversationUseCase,
	chatUC *usecase.ChatUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		jobUC:     jobUC,
		summaryUC: summaryUC,
		convUC:    convUC,
		chatUC:    chatUC,
		auth:      auth,
		log:       logger.With().Str("component", "web").Logger(),
	}
}

// Routes builds the router. Split out from Start so tests can drive handlers
// through httptest without binding a port.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(s.traceContext)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Slack calls this directly; it is excluded from API auth.
	r.Post("/api/v1/slack/events", s.slackEventsHandler())

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)
		r.Post("/api/v1/chat", s.chatHandler())
		r.Post("/api/v1/research", s.startResearchHandler())
		r.Get("/api/v1/jobs", s.listJobsHandler())
		r.Get("/api/v1/jobs/{jobID}", s.getJobHandler())
		r.Post("/api/v1/summary", s.summaryHandler())
	})
	return r
}

// traceContext carries the per-request id so downstream log lines can be
// correlated with the request that produced them.
func (s *Server) traceContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			ctx = logging.WithTraceID(ctx, reqID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, port int) error {
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpSrv.Addr).Msg("http server listening")
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}
