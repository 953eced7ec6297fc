package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/review-pilot/internal/config"
	"github.com/sevigo/review-pilot/internal/core"
)

// ClientFactory turns the installation id carried by an event into an
// authenticated Client. Minting happens once per event; tokens are never
// cached across events.
type ClientFactory interface {
	ClientFor(ctx context.Context, installationID int64) (Client, error)
}

// NewClientFactory selects the factory matching the configured auth mode.
func NewClientFactory(cfg *config.Config, logger *slog.Logger) (ClientFactory, error) {
	switch cfg.GitHub.AuthMode {
	case config.AuthModeApp:
		return &appClientFactory{
			appID:          cfg.GitHub.AppID,
			privateKeyPath: cfg.GitHub.PrivateKeyPath,
			logger:         logger,
		}, nil
	case config.AuthModeToken:
		return &tokenClientFactory{token: cfg.GitHub.Token, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported GitHub auth mode: %q", cfg.GitHub.AuthMode)
	}
}

// appClientFactory exchanges the GitHub App identity and an installation id
// for a short-lived installation token on every call.
type appClientFactory struct {
	appID          int64
	privateKeyPath string
	logger         *slog.Logger
}

func (f *appClientFactory) ClientFor(ctx context.Context, installationID int64) (Client, error) {
	if installationID <= 0 {
		return nil, fmt.Errorf("%w: event carries no installation id", core.ErrAuthUnavailable)
	}

	privateKey, err := os.ReadFile(f.privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read private key %s: %w", core.ErrAuthUnavailable, f.privateKeyPath, err)
	}

	appTransport, err := ghinstallation.NewAppsTransport(http.DefaultTransport, f.appID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: create app transport: %w", core.ErrAuthUnavailable, err)
	}

	appClient := github.NewClient(&http.Client{Transport: appTransport})
	token, _, err := appClient.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: mint token for installation %d: %w", core.ErrAuthUnavailable, installationID, err)
	}
	if token.GetToken() == "" {
		return nil, fmt.Errorf("%w: received an empty installation token", core.ErrAuthUnavailable)
	}

	f.logger.Info("minted installation token",
		"installation_id", installationID, "expires_at", token.GetExpiresAt())

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.GetToken()})
	return NewClient(github.NewClient(oauth2.NewClient(ctx, ts)), f.logger), nil
}

// tokenClientFactory serves the same static-token client for every event.
type tokenClientFactory struct {
	token  string
	logger *slog.Logger
}

func (f *tokenClientFactory) ClientFor(ctx context.Context, _ int64) (Client, error) {
	if f.token == "" {
		return nil, fmt.Errorf("%w: no static token configured", core.ErrAuthUnavailable)
	}
	return NewPATClient(ctx, f.token, f.logger), nil
}
