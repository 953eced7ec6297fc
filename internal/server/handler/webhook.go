// Package handler provides HTTP handlers for the webhook endpoint.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/review-pilot/internal/config"
	"github.com/sevigo/review-pilot/internal/core"
)

// WebhookHandler processes incoming webhooks from GitHub. Once a delivery's
// signature checks out it is always acknowledged with 200: processing
// failures are an operator concern and must never look like delivery
// failures to the platform, which would otherwise retry.
type WebhookHandler struct {
	cfg        *config.Config
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates a webhook handler.
func NewWebhookHandler(cfg *config.Config, dispatcher core.JobDispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle validates, parses and dispatches one webhook delivery.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, []byte(h.cfg.GitHub.WebhookSecret))
	if err != nil {
		h.logger.Error("invalid webhook payload signature", "error", err)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		h.logger.Error("could not parse webhook payload", "type", github.WebHookType(r), "error", err)
		h.ack(w, "Event ignored")
		return
	}

	switch e := event.(type) {
	case *github.PullRequestEvent:
		h.handlePullRequest(r.Context(), w, e)
	default:
		h.logger.Debug("ignoring unhandled webhook event type", "type", github.WebHookType(r))
		h.ack(w, "Event type not handled")
	}
}

func (h *WebhookHandler) handlePullRequest(ctx context.Context, w http.ResponseWriter, e *github.PullRequestEvent) {
	reviewEvent, err := core.EventFromPullRequest(e)
	if err != nil {
		h.logger.Warn("dropping malformed pull request event", "error", err)
		h.ack(w, "Event ignored")
		return
	}

	if !reviewEvent.Reviewable() {
		h.logger.Debug("ignoring pull request action",
			"action", reviewEvent.Action, "repo", reviewEvent.RepoFullName)
		h.ack(w, "Action not handled")
		return
	}

	if err := h.dispatcher.Dispatch(ctx, reviewEvent); err != nil {
		// Still acknowledged: the platform must not redeliver on our backpressure.
		h.logger.Error("failed to queue review job",
			"error", err, "repo", reviewEvent.RepoFullName, "pr", reviewEvent.PRNumber)
		h.ack(w, "Event accepted")
		return
	}

	h.logger.Info("review job queued",
		"repo", reviewEvent.RepoFullName, "pr", reviewEvent.PRNumber, "action", reviewEvent.Action)
	h.ack(w, "Review queued")
}

func (h *WebhookHandler) ack(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, msg)
}
