// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ai-research-orchestrator/internal/domain"
	"ai-research-orchestrator/internal/domain/model"
	"ai-research-orchestrator/internal/infra/logging"

	"github.com/go-chi/chi/v5"
)

type startResearchRequest struct {
	Problem        string `json:"problem"`
	ContextSummary string `json:"context_summary,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
}

type jobView struct {
	ID           string          `json:"id"`
	SessionID    string          `json:"session_id"`
	Status       string          `json:"status"`
	Type         string          `json:"job_type"`
	Instructions string          `json:"instructions"`
	Result       json.RawMessage `json:"result,omitempty"`
	ResultText   string          `json:"result_text,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// toJobView surfaces the stored result as parsed JSON when it parses, and as
// plain text otherwise (failure reasons, human replies).
func toJobView(job *model.Job) jobView {
	v := jobView{
		ID:           job.ID,
		SessionID:    job.SessionID,
		Status:       string(job.Status),
		Type:         string(job.Type),
		Instructions: job.Instructions,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
	if job.Result == "" {
		return v
	}
	if json.Valid([]byte(job.Result)) {
		v.Result = json.RawMessage(job.Result)
	} else {
		v.ResultText = job.Result
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) startResearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startResearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		jobs, err := s.jobUC.StartResearch(r.Context(), req.SessionID, req.Problem, req.ContextSummary)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			logging.With(r.Context(), &s.log).Error().Err(err).Msg("start research failed")
			http.Error(w, "Failed to start research", http.StatusInternalServerError)
			return
		}

		views := make([]jobView, 0, len(jobs))
		for _, j := range jobs {
			views = append(views, toJobView(j))
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"session_id": jobs[0].SessionID,
			"jobs":       views,
		})
	}
}

func (s *Server) listJobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session_id")
		jobs, err := s.jobUC.ListJobs(r.Context(), sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			logging.With(r.Context(), &s.log).Error().Err(err).Msg("list jobs failed")
			http.Error(w, "Failed to list jobs", http.StatusInternalServerError)
			return
		}

		views := make([]jobView, 0, len(jobs))
		for _, j := range jobs {
			views = append(views, toJobView(j))
		}
		writeJSON(w, http.StatusOK, map[string]any{"jobs": views})
	}
}

func (s *Server) getJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session_id")
		jobID := chi.URLParam(r, "jobID")

		job, err := s.jobUC.GetJob(r.Context(), sessionID, jobID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidArgument):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domain.ErrNotFound):
				http.Error(w, "Job not found", http.StatusNotFound)
			default:
				logging.With(r.Context(), &s.log).Error().Err(err).Msg("get job failed")
				http.Error(w, "Failed to get job", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, toJobView(job))
	}
}

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

func (s *Server) chatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		turn, err := s.chatUC.SendMessage(r.Context(), req.SessionID, req.Message)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			logging.With(r.Context(), &s.log).Error().Err(err).Msg("chat exchange failed")
			http.Error(w, "Failed to process chat message", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id":          turn.SessionID,
			"message":             turn.Message,
			"temperature":         turn.Temperature,
			"conversation_length": turn.ConversationLength,
			"timestamp":           time.Now().UTC().Format(time.RFC3339),
		})
	}
}

type summaryRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) summaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req summaryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		summary, err := s.summaryUC.Summarize(r.Context(), req.SessionID)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			logging.With(r.Context(), &s.log).Error().Err(err).Msg("summary failed")
			http.Error(w, "Failed to summarize session", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"session_id": req.SessionID,
			"summary":    summary,
		})
	}
}

type slackEvent struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge,omitempty"`
	Event     struct {
		Type    string `json:"type"`
		Channel string `json:"channel"`
		User    string `json:"user"`
		Text    string `json:"text"`
		BotID   string `json:"bot_id,omitempty"`
	} `json:"event,omitempty"`
}

// slackEventsHandler covers the two event shapes Slack sends: the one-time
// url_verification handshake and message event callbacks.
func (s *Server) slackEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev slackEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		switch ev.Type {
		case "url_verification":
			writeJSON(w, http.StatusOK, map[string]string{"challenge": ev.Challenge})
		case "event_callback":
			if ev.Event.Type != "message" || ev.Event.BotID != "" {
				w.WriteHeader(http.StatusOK)
				return
			}
			if err := s.convUC.HandleInboundReply(r.Context(), ev.Event.Channel, ev.Event.User, ev.Event.Text); err != nil {
				// Slack retries on non-2xx; log and ack so a persistent
				// failure does not cause an event storm.
				logging.With(r.Context(), &s.log).Error().Err(err).Msg("inbound reply handling failed")
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}
}
