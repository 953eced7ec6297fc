// Package core defines the essential interfaces and data structures that form
// the backbone of the application. These components are designed to be
// abstract, allowing for flexible and decoupled implementations of the
// application's logic.
package core

import (
	"fmt"

	"github.com/google/go-github/v73/github"
)

// Pull request actions that trigger a review. Every other action is
// acknowledged and ignored.
const (
	ActionOpened      = "opened"
	ActionSynchronize = "synchronize"
)

// ReviewEvent is the normalized, internal view of a pull-request webhook
// event. It is built once per delivery, never mutated, and owned exclusively
// by the pipeline run it triggers.
type ReviewEvent struct {
	Action       string
	RepoOwner    string
	RepoName     string
	RepoFullName string

	PRNumber int
	PRTitle  string
	HeadSHA  string

	// InstallationID is zero when the deployment authenticates with a
	// static token instead of a GitHub App installation.
	InstallationID int64
}

// Reviewable reports whether the event's action is one the pipeline handles.
func (e *ReviewEvent) Reviewable() bool {
	return e.Action == ActionOpened || e.Action == ActionSynchronize
}

// EventFromPullRequest transforms a raw GitHub PullRequestEvent into the
// internal ReviewEvent representation. It acts as an anti-corruption layer:
// the payload is validated here, once, so downstream code never touches the
// raw webhook shape. A payload with an unhandled action is still converted;
// the caller decides whether to proceed via Reviewable.
func EventFromPullRequest(event *github.PullRequestEvent) (*ReviewEvent, error) {
	if event == nil || event.GetPullRequest() == nil {
		return nil, fmt.Errorf("%w: missing pull request payload", ErrMalformedEvent)
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("%w: repository or owner information is missing", ErrMalformedEvent)
	}

	pr := event.GetPullRequest()
	if pr.GetNumber() <= 0 {
		return nil, fmt.Errorf("%w: invalid pull request number %d", ErrMalformedEvent, pr.GetNumber())
	}

	return &ReviewEvent{
		Action:         event.GetAction(),
		RepoOwner:      repo.GetOwner().GetLogin(),
		RepoName:       repo.GetName(),
		RepoFullName:   repo.GetFullName(),
		PRNumber:       pr.GetNumber(),
		PRTitle:        pr.GetTitle(),
		HeadSHA:        pr.GetHead().GetSHA(),
		InstallationID: event.GetInstallation().GetID(),
	}, nil
}
