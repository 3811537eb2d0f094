// File path: cmd/docgen/main.go
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/belriyad/docgen/internal/api"
	"github.com/belriyad/docgen/internal/blob"
	"github.com/belriyad/docgen/internal/common"
	"github.com/belriyad/docgen/internal/generate"
	"github.com/belriyad/docgen/internal/llm"
	"github.com/belriyad/docgen/internal/notify"
	"github.com/belriyad/docgen/internal/store"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("docgen: .env file not loaded", "error", err)
	} else {
		logger.Info("docgen: environment loaded from .env")
	}

	addr := flag.String("addr", ":8082", "listen address")
	catalogPath := flag.String("catalog", defaultCatalogPath(), "path to the SQLite catalog database")
	blobRoot := flag.String("blobs", defaultBlobRoot(), "directory holding template and artifact binaries")
	notifyTo := flag.String("notify", strings.TrimSpace(os.Getenv("DOCGEN_NOTIFY_TO")), "email address notified after each generation batch")
	flag.Parse()

	logger.Info("docgen: startup initiated", "addr", *addr, "catalog", *catalogPath, "blobs", *blobRoot)

	storeCfg, err := store.LoadConfig()
	if err != nil {
		logger.Error("docgen: catalog config load failed", "error", err)
		fmt.Println("catalog config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*catalogPath); trimmed != "" {
		storeCfg.Path = trimmed
	}
	catalog, err := store.OpenWithConfig(storeCfg)
	if err != nil {
		logger.Error("docgen: catalog open failed", "error", err)
		fmt.Println("catalog error:", err)
		os.Exit(1)
	}
	defer catalog.Close()

	blobs, err := blob.NewFileStore(*blobRoot)
	if err != nil {
		logger.Error("docgen: blob store init failed", "error", err)
		fmt.Println("blob store error:", err)
		os.Exit(1)
	}

	provider := llm.NewProvider()
	logger.Info("docgen: llm provider ready", "provider", provider.Name())

	genCfg, err := generate.LoadConfig()
	if err != nil {
		logger.Error("docgen: generation config load failed", "error", err)
		fmt.Println("generation config error:", err)
		os.Exit(1)
	}

	opts := []generate.Option{}
	if recipient := strings.TrimSpace(*notifyTo); recipient != "" {
		opts = append(opts, generate.WithNotifier(notify.NewSenderFromEnv(), recipient))
	}
	orch := generate.New(catalog, blobs, provider, genCfg, opts...)

	server, err := api.NewServer(catalog, blobs, provider, orch)
	if err != nil {
		logger.Error("docgen: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	logger.Info("docgen: server listening", "addr", *addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", *addr)
	reachable := *addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("docgen: verify reachability", "suggestion", fmt.Sprintf("curl http://%s/healthz", reachable))
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Error("docgen: server stopped", "error", err)
		fmt.Println("server stopped:", err)
		os.Exit(1)
	}
}

func defaultCatalogPath() string {
	if env := strings.TrimSpace(os.Getenv("DOCGEN_DB_PATH")); env != "" {
		return env
	}
	return filepath.Join("data", "docgen.db")
}

func defaultBlobRoot() string {
	if env := strings.TrimSpace(os.Getenv("DOCGEN_BLOB_ROOT")); env != "" {
		return env
	}
	return filepath.Join("data", "blobs")
}
