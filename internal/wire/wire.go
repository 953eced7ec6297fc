//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/sevigo/review-pilot/internal/app"
	"github.com/sevigo/review-pilot/internal/config"
	"github.com/sevigo/review-pilot/internal/github"
	"github.com/sevigo/review-pilot/internal/jobs"
	"github.com/sevigo/review-pilot/internal/llm"
	"github.com/sevigo/review-pilot/internal/server"
)

func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	wire.Build(
		app.NewApp,
		server.NewServer,
		config.LoadConfig,
		github.NewClientFactory,
		jobs.NewReviewJob,
		llm.NewPromptManager,
		providePromptBuilder,
		provideGeneratorLLM,
		provideAnalyzer,
		provideDispatcher,
		provideLogger,
	)
	return &app.App{}, nil, nil
}
