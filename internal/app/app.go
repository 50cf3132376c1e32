package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"

	config "github.com/modaics/go-backend/internal/cfg"
	v1Http "github.com/modaics/go-backend/internal/delivery/v1/http"
	"github.com/modaics/go-backend/internal/fusion"
	"github.com/modaics/go-backend/internal/infrastructure/embedder"
	"github.com/modaics/go-backend/internal/infrastructure/kafka"
	minioInfra "github.com/modaics/go-backend/internal/infrastructure/minio"
	"github.com/modaics/go-backend/internal/infrastructure/oracle"
	"github.com/modaics/go-backend/internal/labels"
	s3Repo "github.com/modaics/go-backend/internal/repository/minio"
	"github.com/modaics/go-backend/internal/repository/pgdb"
	pgdbConv "github.com/modaics/go-backend/internal/repository/pgdb/converter"
	qdrantRepo "github.com/modaics/go-backend/internal/repository/qdrant"
	"github.com/modaics/go-backend/internal/repository/redis"
	redisConv "github.com/modaics/go-backend/internal/repository/redis/converter"
	"github.com/modaics/go-backend/internal/usecase"
	"github.com/modaics/go-backend/internal/worker"
	"github.com/modaics/go-backend/internal/zeroshot"
	"github.com/modaics/go-backend/pkg/clients"
	"github.com/modaics/go-backend/pkg/closer"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/logger"
	"github.com/modaics/go-backend/pkg/postgres"
)

const (
	initTimeout       = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	warmupTimeout     = 30 * time.Second
	backfillInterval  = time.Minute
	backfillBatchSize = 50
)

// App собирает все слои приложения и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv     *v1Http.Server
	backfill    *worker.BackfillWorker
	outbox      *kafka.OutboxWorker
	imagesInfra *minioInfra.MinioInfrastructure
	classifier  *zeroshot.Classifier

	// shutdownCancel завершает фоновые задачи, переживающие запросы
	// (очистка изображений, воркер доиндексации).
	shutdownCancel context.CancelFunc
	shutdownCtx    context.Context
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(2 * time.Second)
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		cfg:            cfg,
		logger:         log,
		closer:         cl,
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	db, err := initPGDB(log, cfg)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(_ context.Context) error {
		db.Close()
		return nil
	})

	itemConv := pgdbConv.NewItemConverter()
	infoConv := redisConv.NewItemInfoConverter()

	itemRepo := pgdb.NewItemRepo(db.Pool, itemConv)

	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(_ context.Context) error {
		return qdrantClient.Client.Close()
	})

	qdrantCtx, qdrantCancel := context.WithTimeout(context.Background(), initTimeout)
	if err := clients.EnsureCollection(qdrantCtx, qdrantClient); err != nil {
		qdrantCancel()
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	qdrantCancel()

	embRepo := qdrantRepo.NewEmbeddingRepo(qdrantClient.Client, cfg.Qdrant)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), initTimeout)
	if err := redisClient.Ping(redisCtx); err != nil {
		redisCancel()
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	redisCancel()
	cl.Add(func(_ context.Context) error {
		return redisClient.Client.Close()
	})

	cacheRepo := redis.NewCacheRepo(redisClient, infoConv, cfg.Redis, log)

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), initTimeout)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	app.imagesInfra = minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, shutdownCtx)

	embedderClient := embedder.NewClient(cfg.Embedder, log)

	catalog, err := labels.Load(cfg.Labels.CatalogPath)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	log.Infof("label catalog loaded, version %s", catalog.Version)

	app.classifier = zeroshot.NewClassifier(embedderClient, catalog, int(cfg.Qdrant.VectorSize))

	tiers := make([]fusion.BrandTier, 0, 3)
	if cfg.Oracle.APIKey != "" {
		tiers = append(tiers, fusion.NewOracleTier(oracle.NewClient(cfg.Oracle, log), catalog))
	} else {
		log.Warnf("oracle API key is not set, brand cascade runs without the oracle tier")
	}
	tiers = append(tiers, fusion.NewMentionTier(catalog), fusion.NewZeroShotTier(app.classifier))

	engine := fusion.NewEngine(app.classifier, catalog, tiers, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(initTimeout); err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(_ context.Context) error {
		return producer.Close()
	})

	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverter())
	app.outbox = kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)

	storedDim := int(cfg.Qdrant.VectorSize)

	searchUC := usecase.NewSearchUC(embedderClient, embRepo, itemRepo, cacheRepo, cfg.Search, storedDim, log)
	analyzeUC := usecase.NewAnalyzeUC(embedderClient, embRepo, itemRepo, cacheRepo, engine, cfg.Search, storedDim, log)
	itemUC := usecase.NewItemUC(itemRepo, db.Pool, embedderClient, app.imagesInfra, embRepo, outboxRepo, cacheRepo, storedDim, log)

	app.backfill = worker.NewBackfillWorker(
		itemRepo,
		embRepo,
		embedderClient,
		imageRepo,
		outboxRepo,
		storedDim,
		backfillInterval,
		backfillBatchSize,
		log,
	)

	mux := chi.NewRouter()
	router := v1Http.NewRouter(mux, log)
	router.Init(searchUC, analyzeUC, itemUC)

	app.httpSrv = v1Http.NewServer(mux, cfg.Http)

	return app, nil
}

// Run запускает фоновый воркер и HTTP-сервер и блокируется
// до сигнала завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	// Прогрев индекса меток не должен задерживать старт:
	// при неудаче классификатор построит индекс при первом запросе.
	go func() {
		warmupCtx, cancel := context.WithTimeout(a.shutdownCtx, warmupTimeout)
		defer cancel()
		if err := a.classifier.Warmup(warmupCtx); err != nil {
			a.logger.Warnf("label index warmup failed: %v", err)
		}
	}()

	a.backfill.Start(a.shutdownCtx)
	a.outbox.Start(a.shutdownCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	a.stop()

	return appErr
}

func (a *App) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	a.backfill.Stop()
	a.logger.Infof("backfill worker stopped")

	a.outbox.Stop()
	a.logger.Infof("outbox worker stopped")

	done := make(chan error, 1)
	go func() {
		done <- a.imagesInfra.WaitForCleanup(shutdownCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			a.logger.Warnf("MinIO cleanup error: %v", err)
		} else {
			a.logger.Infof("MinIO cleanup completed")
		}
	case <-time.After(5 * time.Second):
		a.logger.Warnf("MinIO cleanup did not finish before shutdown, some temporary objects may remain")
	}

	// Оставшиеся фоновые задачи обрываются перед закрытием клиентов
	a.shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("resource close error: %v", err)
	}

	a.logger.Infof("Application shutdown complete")
}

func initPGDB(log logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		log.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(log); err != nil {
		log.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		log.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
