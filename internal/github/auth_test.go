package github

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-pilot/internal/config"
	"github.com/sevigo/review-pilot/internal/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestNewClientFactory(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.GitHubConfig
		wantType any
		wantErr  bool
	}{
		{
			name:     "app mode",
			cfg:      config.GitHubConfig{AuthMode: config.AuthModeApp, AppID: 1, PrivateKeyPath: "key.pem"},
			wantType: &appClientFactory{},
		},
		{
			name:     "token mode",
			cfg:      config.GitHubConfig{AuthMode: config.AuthModeToken, Token: "ghp_x"},
			wantType: &tokenClientFactory{},
		},
		{
			name:    "unknown mode",
			cfg:     config.GitHubConfig{AuthMode: "basic"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, err := NewClientFactory(&config.Config{GitHub: tt.cfg}, testLogger())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, factory)
		})
	}
}

func TestTokenClientFactory(t *testing.T) {
	t.Run("returns a client for any installation id", func(t *testing.T) {
		factory := &tokenClientFactory{token: "ghp_x", logger: testLogger()}
		client, err := factory.ClientFor(context.Background(), 0)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("empty token is an auth failure", func(t *testing.T) {
		factory := &tokenClientFactory{logger: testLogger()}
		_, err := factory.ClientFor(context.Background(), 7)
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrAuthUnavailable))
	})
}

func TestAppClientFactory_ClientFor(t *testing.T) {
	t.Run("missing installation id", func(t *testing.T) {
		factory := &appClientFactory{appID: 1, privateKeyPath: "key.pem", logger: testLogger()}
		_, err := factory.ClientFor(context.Background(), 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrAuthUnavailable))
	})

	t.Run("unreadable private key", func(t *testing.T) {
		factory := &appClientFactory{appID: 1, privateKeyPath: "does/not/exist.pem", logger: testLogger()}
		_, err := factory.ClientFor(context.Background(), 7)
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrAuthUnavailable))
	})
}
