// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/review-pilot/internal/core"
)

// ChangedFile holds the filename and patch data for a single file included
// in a pull request. Patch is empty when GitHub reports no textual diff,
// e.g. for binary or rename-only changes; such files are still listed.
type ChangedFile struct {
	Filename string
	Patch    string
}

// Client defines the read and write operations the review pipeline needs
// from the hosting platform.
//
//go:generate mockgen -destination=../../mocks/mock_github_client.go -package=mocks . Client
type Client interface {
	// ListChangedFiles returns every file changed in the pull request, in
	// API order. A pull request with zero changed files yields an empty
	// slice and no error.
	ListChangedFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error)

	// GetFileContent fetches and decodes one file at path. The boolean is
	// false when the file does not exist; that is not an error.
	GetFileContent(ctx context.Context, owner, repo, path string) (string, bool, error)

	// SearchFilesByName locates every occurrence of a filename across the
	// repository. Search failures are swallowed: context discovery is
	// best-effort and must never abort a review.
	SearchFilesByName(ctx context.Context, owner, repo, filename string) ([]string, error)

	// CreateReview posts a single COMMENT-type review on the pull request.
	CreateReview(ctx context.Context, owner, repo string, number int, body string) error
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewClient wraps the official go-github client in the application's
// focused, testable interface.
func NewClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// NewPATClient creates a Client authenticated with a static personal access
// token. Used by token-mode deployments and the CLI.
func NewPATClient(ctx context.Context, token string, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return NewClient(github.NewClient(oauth2.NewClient(ctx, ts)), logger)
}

func (g *gitHubClient) ListChangedFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error) {
	files := []ChangedFile{}
	opts := &github.ListOptions{PerPage: 100}

	for {
		page, resp, err := g.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, g.upstreamError("list changed files", owner, repo, err)
		}

		for _, f := range page {
			files = append(files, ChangedFile{
				Filename: f.GetFilename(),
				Patch:    f.GetPatch(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return files, nil
}

func (g *gitHubClient) GetFileContent(ctx context.Context, owner, repo, path string) (string, bool, error) {
	file, _, resp, err := g.client.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, g.upstreamError("fetch file content", owner, repo, err)
	}
	if file == nil {
		// Path resolved to a directory listing.
		return "", false, nil
	}

	content, err := file.GetContent()
	if err != nil {
		return "", false, fmt.Errorf("%w: decode %s: %w", core.ErrUpstreamUnavailable, path, err)
	}
	return content, true, nil
}

func (g *gitHubClient) SearchFilesByName(ctx context.Context, owner, repo, filename string) ([]string, error) {
	query := fmt.Sprintf("filename:%s repo:%s/%s", filename, owner, repo)
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 50}}

	result, _, err := g.client.Search.Code(ctx, query, opts)
	if err != nil {
		g.logger.Warn("code search failed, continuing without discovered context",
			"repo", owner+"/"+repo, "filename", filename, "error", err)
		return nil, nil
	}

	var paths []string
	for _, item := range result.CodeResults {
		if item.GetName() == filename {
			paths = append(paths, item.GetPath())
		}
	}
	return paths, nil
}

func (g *gitHubClient) CreateReview(ctx context.Context, owner, repo string, number int, body string) error {
	review := &github.PullRequestReviewRequest{
		Body:  &body,
		Event: github.Ptr("COMMENT"),
	}

	if _, _, err := g.client.PullRequests.CreateReview(ctx, owner, repo, number, review); err != nil {
		return g.upstreamError("create review", owner, repo, err)
	}
	return nil
}

// upstreamError classifies and wraps a hosting-platform failure. Permission
// problems and transient failures are handled identically by callers; the
// distinction only matters for the log line.
func (g *gitHubClient) upstreamError(op, owner, repo string, err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusForbidden {
		g.logger.Warn("github request rejected, token may lack permissions",
			"op", op, "repo", owner+"/"+repo, "error", err)
	} else {
		g.logger.Error("github request failed", "op", op, "repo", owner+"/"+repo, "error", err)
	}
	return fmt.Errorf("%w: %s: %w", core.ErrUpstreamUnavailable, op, err)
}
