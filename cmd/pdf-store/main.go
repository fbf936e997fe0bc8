// Точка входа PDF Store - сервис загрузки и просмотра PDF-файлов.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// создаёт файловое хранилище, сервисный слой и API handlers,
// запускает topologymetrics и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/pdfstore/internal/api/handlers"
	"github.com/bigkaa/pdfstore/internal/api/middleware"
	"github.com/bigkaa/pdfstore/internal/api/openapi"
	"github.com/bigkaa/pdfstore/internal/config"
	"github.com/bigkaa/pdfstore/internal/database"
	"github.com/bigkaa/pdfstore/internal/repository"
	"github.com/bigkaa/pdfstore/internal/server"
	"github.com/bigkaa/pdfstore/internal/service"
	"github.com/bigkaa/pdfstore/internal/storage/filestore"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("PDF Store запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("storage_dir", cfg.StorageDir),
	)

	ctx := context.Background()

	// 3. OpenAPI контракт (валидация при старте)
	doc, err := openapi.Load(ctx)
	if err != nil {
		logger.Error("Ошибка загрузки OpenAPI документа", slog.String("error", err.Error()))
		os.Exit(1)
	}
	openapiJSON, err := openapi.MarshalJSON(doc)
	if err != nil {
		logger.Error("Ошибка сериализации OpenAPI документа", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Подключение к PostgreSQL (pgxpool)
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 5.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 6. Файловое хранилище
	store, err := filestore.NewOS(cfg.StorageDir)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Хранилище готово", slog.String("root", store.Root()))

	// 7. Repository + кэш метаданных
	fileRepo := repository.NewUploadedFileRepository(pool)
	cache := service.NewCacheService(cfg.CacheSize, cfg.CacheTTL)
	if cache == nil {
		logger.Info("Кэш метаданных отключён (PS_CACHE_SIZE=0)")
	}

	// 8. Services
	uploadSvc := service.NewUploadService(fileRepo, store, cfg.MaxFileSize, logger)
	deleteSvc := service.NewDeleteService(fileRepo, store, cache, logger)
	retrieveSvc := service.NewRetrieveService(fileRepo, store, cache, logger)

	// 9. topologymetrics - мониторинг PostgreSQL
	dephealthSvc, err := service.NewDephealthService(
		"pdf-store",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL("postgres"),
		cfg.DephealthCheckInterval,
		logger,
	)
	if err != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", err.Error()),
		)
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
		dephealthSvc = nil
	} else {
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 10. Handlers
	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(pool))
	apiHandler := handlers.NewAPIHandler(
		uploadSvc,
		deleteSvc,
		retrieveSvc,
		healthHandler,
		openapiJSON,
		cfg.PublicBaseURL,
		cfg.MaxFileSize,
		logger,
	)

	// 11. HTTP-сервер: metrics → logging → CORS → маршруты
	srv := server.New(cfg, logger, apiHandler,
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	// 12. Запуск сервера (блокирующий вызов с graceful shutdown)
	runErr := srv.Run()

	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	if runErr != nil {
		logger.Error("Сервер завершился с ошибкой", slog.String("error", runErr.Error()))
		pgDB.Close()
		pool.Close()
		os.Exit(1)
	}

	logger.Info("PDF Store остановлен")
}
