package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"a2t/internal/api/server"
	"a2t/internal/api/v1/services"
	"a2t/internal/app/api"
	"a2t/internal/app/api/assemblyai"
	"a2t/internal/app/api/provider"
	"a2t/internal/app/audio"
	"a2t/internal/app/converter"
	"a2t/internal/app/pipeline"
	"a2t/internal/app/session"
	"a2t/internal/config"
)

// provideRegistry collects the process metrics plus everything a2t registers.
func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideProviderMetrics(reg *prometheus.Registry) provider.ProviderMetrics {
	return provider.NewProviderMetrics(reg)
}

func providePipelineMetrics(reg *prometheus.Registry) *pipeline.Metrics {
	return pipeline.NewMetrics(reg)
}

// provideTranscriber builds the AssemblyAI client from settings and the resolved key.
func provideTranscriber(settings *config.Settings, key config.Secret, metrics provider.ProviderMetrics, logger *zap.Logger) (api.Transcriber, error) {
	client := assemblyai.NewClient(assemblyai.Config{
		APIKey:        key.Value,
		BaseURL:       settings.AssemblyAI.BaseURL,
		PollInterval:  settings.AssemblyAI.PollInterval,
		Transcription: settings.TranscriptionConfig(),
	}, nil, metrics, logger)
	if err := client.ValidateConfiguration(); err != nil {
		return nil, err
	}
	return client, nil
}

func provideNormalizer(settings *config.Settings, logger *zap.Logger) audio.Normalizer {
	return audio.NewFFmpegNormalizer(audio.FFmpegConfig{
		FFmpegPath:  settings.FFmpegPath,
		FFprobePath: settings.FFprobePath,
	}, audio.ExecRunner{}, logger)
}

func providePipeline(settings *config.Settings, normalizer audio.Normalizer, transcriber api.Transcriber, metrics *pipeline.Metrics, logger *zap.Logger) *pipeline.Pipeline {
	return pipeline.New(pipeline.Config{
		ScratchDir:     settings.ScratchDir,
		MaxUploadBytes: settings.MaxUploadBytes(),
	}, normalizer, transcriber, metrics, logger)
}

// provideSessionStore returns Redis when A2T_REDIS_URL is set and the
// in-process store otherwise.
func provideSessionStore(ctx context.Context, settings *config.Settings, logger *zap.Logger) (session.Store, func(), error) {
	if settings.RedisURL == "" {
		return session.NewMemoryStore(settings.SessionTTL), func() {}, nil
	}
	store, err := session.NewRedisStoreFromURL(ctx, settings.RedisURL, settings.SessionTTL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using Redis session store")
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close Redis session store", zap.Error(err))
		}
	}, nil
}

func provideTranscriptionService(p *pipeline.Pipeline, store session.Store, logger *zap.Logger) services.TranscriptionService {
	return services.NewTranscriptionService(p, store, logger)
}

func provideServer(settings *config.Settings, service services.TranscriptionService, reg *prometheus.Registry, logger *zap.Logger) (*server.Server, error) {
	return server.NewServer(server.Config{
		Host:              settings.Host,
		Port:              settings.Port,
		ReadHeaderTimeout: server.DefaultReadHeaderTimeout,
		IdleTimeout:       server.DefaultIdleTimeout,
		Environment:       settings.Env,
		MaxUploadBytes:    settings.MaxUploadBytes(),
		SessionTTL:        settings.SessionTTL,
	}, service, reg, logger)
}

func provideConverter(p *pipeline.Pipeline, logger *zap.Logger) *converter.Converter {
	return converter.NewConverter(p, logger)
}
