package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/voxpaper/paper-narrator/internal/analyze"
	"github.com/voxpaper/paper-narrator/internal/config"
	"github.com/voxpaper/paper-narrator/internal/core/ports"
	"github.com/voxpaper/paper-narrator/internal/core/usecase"
	"github.com/voxpaper/paper-narrator/internal/infrastructure/eval/httpeval"
	"github.com/voxpaper/paper-narrator/internal/infrastructure/queue/nats"
	"github.com/voxpaper/paper-narrator/internal/infrastructure/repository/postgres"
	"github.com/voxpaper/paper-narrator/internal/infrastructure/resilience"
	"github.com/voxpaper/paper-narrator/internal/infrastructure/storage/localfs"
	"github.com/voxpaper/paper-narrator/internal/infrastructure/tts/httptts"
	"github.com/voxpaper/paper-narrator/internal/tabular"
	"github.com/voxpaper/paper-narrator/internal/verbalize"
)

type App struct {
	Config config.Config

	Queue   ports.MessageQueue
	Repo    ports.JobRepository
	Storage ports.ObjectStorage

	SubmitUC  ports.PaperSubmitter
	ConvertUC ports.PaperConverter

	closeFn func()
}

// New wires the full dependency graph. The observer is how the worker plugs
// its Prometheus instruments into the conversion pipeline; the api passes nil.
func New(ctx context.Context, cfg config.Config, observer ports.ConversionObserver) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewJobRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	analyzer := analyze.New(storage)
	verbalizer := verbalize.New()
	summarizer := tabular.New()
	synthesizer := httptts.New(cfg.TTSURL, httptts.Options{
		Timeout:            time.Duration(cfg.TTSTimeoutSeconds) * time.Second,
		ResilienceExecutor: executor,
	})
	evaluator := httpeval.New(cfg.EvaluatorURL, httpeval.Options{
		ResilienceExecutor: executor,
	})

	submitUC := usecase.NewSubmitPaperUseCase(repo, storage, queue, cfg.ChunkSize)
	convertUC := usecase.NewConvertPaperUseCase(
		repo,
		storage,
		analyzer,
		verbalizer,
		summarizer,
		synthesizer,
		evaluator,
		observer,
		cfg.EvaluationFailureFatal,
	)

	return &App{
		Config:  cfg,
		Queue:   queue,
		Repo:    repo,
		Storage: storage,

		SubmitUC:  submitUC,
		ConvertUC: convertUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
