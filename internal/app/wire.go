//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"a2t/internal/api/server"
	"a2t/internal/app/converter"
	"a2t/internal/config"
)

var pipelineSet = wire.NewSet(
	provideRegistry,
	provideProviderMetrics,
	providePipelineMetrics,
	provideTranscriber,
	provideNormalizer,
	providePipeline,
)

// InitializeServer wires the HTTP server. The cleanup func releases the session store.
func InitializeServer(ctx context.Context, settings *config.Settings, key config.Secret, logger *zap.Logger) (*server.Server, func(), error) {
	wire.Build(pipelineSet, provideSessionStore, provideTranscriptionService, provideServer)
	return nil, nil, nil
}

// InitializeConverter wires the batch converter used by `a2t transcribe`.
func InitializeConverter(settings *config.Settings, key config.Secret, logger *zap.Logger) (*converter.Converter, error) {
	wire.Build(pipelineSet, provideConverter)
	return nil, nil
}
