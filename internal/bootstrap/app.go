package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"nac-advisor/internal/decisions"
	"nac-advisor/internal/library"
	"nac-advisor/internal/llm"
	"nac-advisor/internal/llm/anthropic"
	"nac-advisor/internal/llm/azure"
	"nac-advisor/internal/llm/compat"
	"nac-advisor/internal/llm/gemini"
	"nac-advisor/internal/llm/openai"
	"nac-advisor/internal/services/health"
	"nac-advisor/internal/shared/config"
	"nac-advisor/internal/shared/server"
	"nac-advisor/internal/shared/server/middleware"
	"nac-advisor/internal/shared/storage/db"
	"nac-advisor/internal/shared/storage/object"
	localstore "nac-advisor/internal/shared/storage/object/local"
	s3store "nac-advisor/internal/shared/storage/object/s3"
	"nac-advisor/internal/usage"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	Library         library.Reader
	Engine          *decisions.Engine
	Gateway         *llm.Router
	UsageService    *usage.Service
	DecisionHandler *decisions.Handler
	LibraryHandler  *library.Handler
	AIHandler       *llm.Handler
	UsageHandler    *usage.Handler
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := BuildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.LibrarySource == "postgres" && sqlDB == nil {
		log.Printf("bootstrap: LIBRARY_SOURCE=postgres without a database; using seed library")
		cfg.LibrarySource = "seed"
	}
	reader, err := BuildLibrary(cfg, sqlDB, store)
	if err != nil {
		return nil, err
	}

	var usageSvc *usage.Service
	if sqlDB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(db.Wrap(sqlDB)))
	} else {
		usageSvc = usage.NewService()
	}

	gateway, err := BuildGateway(cfg, usageSvc)
	if err != nil {
		return nil, err
	}

	engine := decisions.NewEngine(reader)
	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		Store:           store,
		Library:         reader,
		Engine:          engine,
		Gateway:         gateway,
		UsageService:    usageSvc,
		DecisionHandler: decisions.NewHandler(engine),
		LibraryHandler:  library.NewHandler(reader),
		AIHandler:       llm.NewHandler(gateway),
		UsageHandler:    usage.NewHandler(usageSvc),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Health:          health.NewService(cfg.LibrarySource, gateway),
		DecisionHandler: app.DecisionHandler,
		LibraryHandler:  app.LibraryHandler,
		AIHandler:       app.AIHandler,
		UsageHandler:    app.UsageHandler,
		RateLimiter:     middleware.NewRateLimiter(nil),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) || cfg.LibrarySource != "postgres" {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory stores")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database unavailable; using in-memory stores: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// BuildStore returns the configured object store.
func BuildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// BuildLibrary returns the resource library reader for cfg.LibrarySource.
func BuildLibrary(cfg config.Config, sqlDB *sql.DB, store object.ObjectStore) (library.Reader, error) {
	switch cfg.LibrarySource {
	case "postgres":
		if sqlDB == nil {
			return nil, fmt.Errorf("library source postgres requires DATABASE_URL")
		}
		return library.NewPGReader(db.Wrap(sqlDB)), nil
	case "file":
		if store == nil {
			return nil, fmt.Errorf("library source file requires an object store")
		}
		return library.NewFileReader(store, cfg.LibraryKey), nil
	default:
		return library.SeedReader()
	}
}

// BuildGateway constructs every provider adapter and the router over them.
// Providers without credentials are registered as unavailable rather than failing startup.
func BuildGateway(cfg config.Config, recorder llm.Recorder) (*llm.Router, error) {
	keys := cfg.ProviderKeys
	builders := []struct {
		id    string
		build func() (llm.Adapter, error)
	}{
		{llm.ProviderOpenAI, func() (llm.Adapter, error) { return openai.New(keys.OpenAI) }},
		{llm.ProviderAnthropic, func() (llm.Adapter, error) { return anthropic.New(keys.Anthropic) }},
		{llm.ProviderGemini, func() (llm.Adapter, error) { return gemini.New(keys.Gemini) }},
		{llm.ProviderPerplexity, func() (llm.Adapter, error) { return compat.NewPerplexity(keys.Perplexity) }},
		{llm.ProviderDeepSeek, func() (llm.Adapter, error) { return compat.NewDeepSeek(keys.DeepSeek) }},
		{llm.ProviderAzure, func() (llm.Adapter, error) {
			return azure.New(keys.AzureOpenAI, keys.AzureEndpoint, azure.WithDeployment(keys.AzureDeployment))
		}},
	}

	var adapters []llm.Adapter
	unavailable := map[string]error{}
	for _, b := range builders {
		adapter, err := b.build()
		if err != nil {
			log.Printf("bootstrap: ai provider %s disabled: %v", b.id, err)
			unavailable[b.id] = err
			continue
		}
		adapters = append(adapters, adapter)
	}

	prices := llm.DefaultPrices()
	if path := strings.TrimSpace(cfg.AIPricingFile); path != "" {
		custom, err := llm.LoadPriceFile(path)
		if err != nil {
			return nil, err
		}
		prices = prices.Merge(custom)
	}

	return llm.NewRouter(adapters, unavailable, llm.Options{
		DefaultProvider: cfg.AIDefaultProvider,
		FallbackOrder:   cfg.AIFallbackOrder,
		Timeout:         cfg.AITimeout,
		Prices:          prices,
		Recorder:        recorder,
	}), nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
