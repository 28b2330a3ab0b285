package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"nac-advisor/internal/library"
	"nac-advisor/internal/llm"
	"nac-advisor/internal/shared/config"
)

func devConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:               "dev",
		LibrarySource:     "seed",
		ObjectStoreType:   "local",
		LocalStoreDir:     t.TempDir(),
		LibraryKey:        "library/snapshot.yaml",
		AIDefaultProvider: "openai",
		AIFallbackOrder:   config.DefaultFallbackOrder,
		AIRateLimitRPS:    1,
		AIRateLimitBurst:  10,
	}
}

func TestBuildWithoutCredentials(t *testing.T) {
	app, err := Build(devConfig(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if app.DB != nil {
		t.Fatalf("expected in-memory stores without DATABASE_URL")
	}

	available, disabled := app.Gateway.Providers()
	if len(available) != 0 || len(disabled) != len(config.DefaultFallbackOrder) {
		t.Fatalf("unexpected providers: available=%v disabled=%v", available, disabled)
	}

	_, err = app.Gateway.Complete(context.Background(), llm.Request{Prompt: "hi"})
	var missing *llm.MissingCredentialError
	if !errors.As(err, &missing) || missing.EnvVar != "OPENAI_API_KEY" {
		t.Fatalf("expected missing OpenAI credential, got %v", err)
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestBuildGatewayRegistersConfiguredProviders(t *testing.T) {
	cfg := devConfig(t)
	cfg.ProviderKeys = config.ProviderKeys{Anthropic: "ak", DeepSeek: "dk", AzureOpenAI: "az"}

	gw, err := BuildGateway(cfg, nil)
	if err != nil {
		t.Fatalf("build gateway: %v", err)
	}
	available, disabled := gw.Providers()
	if len(available) != 2 || available[0] != "anthropic" || available[1] != "deepseek" {
		t.Fatalf("unexpected available providers: %v", available)
	}
	if len(disabled) != 4 {
		t.Fatalf("azure without an endpoint must be disabled, got %v", disabled)
	}
}

func TestBuildGatewayRejectsBadPricingFile(t *testing.T) {
	cfg := devConfig(t)
	cfg.AIPricingFile = filepath.Join(t.TempDir(), "prices.yaml")
	if err := os.WriteFile(cfg.AIPricingFile, []byte("gpt-4o:\n  input_per_million: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := BuildGateway(cfg, nil); err == nil {
		t.Fatalf("expected pricing file error")
	}
}

func TestBuildLibraryFileSource(t *testing.T) {
	cfg := devConfig(t)
	cfg.LibrarySource = "file"
	store, err := BuildStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	reader, err := BuildLibrary(cfg, nil, store)
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	if _, err := library.Load(context.Background(), reader); !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before publish, got %v", err)
	}
}

func TestBuildFallsBackToSeedWithoutDatabase(t *testing.T) {
	cfg := devConfig(t)
	cfg.LibrarySource = "postgres"
	app, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if app.Config.LibrarySource != "seed" {
		t.Fatalf("expected seed fallback, got %q", app.Config.LibrarySource)
	}
	if _, ok := app.Library.(*library.MemoryReader); !ok {
		t.Fatalf("expected memory reader, got %T", app.Library)
	}
}
