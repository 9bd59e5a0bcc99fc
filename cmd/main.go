package main

import (
	"encoding/base64"
	"flag"
	stdlog "log"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/emonxxx11/filegate/pkg/api"
	"github.com/emonxxx11/filegate/pkg/config"
	"github.com/emonxxx11/filegate/pkg/credentials"
	"github.com/emonxxx11/filegate/pkg/ratelimit"
	"github.com/emonxxx11/filegate/pkg/storage"
	"github.com/emonxxx11/filegate/pkg/token"
	"github.com/emonxxx11/filegate/pkg/version"
)

func main() {
	var (
		debug      bool
		configPath string
	)
	flag.BoolVar(&debug, "debug", false, "enable debug level logging")
	flag.StringVar(&configPath, "config", "", "path to the config file")
	flag.Parse()

	zl := setupLogger(debug)
	log := zl.Sugar()
	log.With("version", version.Version).Info("Starting filegate api")

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Error loading config for filegate: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid filegate config: %v", err)
	}

	creds := credentials.NewStore(cfg.Auth.Clients)
	log.Infow("credential store loaded", "clients", creds.Len())

	tokens := token.NewHMACService([]byte(cfg.Auth.SigningKey), cfg.Auth.TTL())

	general := ratelimit.New(ratelimit.Config{
		Rate:  cfg.RateLimit.RequestsPerSecond,
		Burst: cfg.RateLimit.Burst,
	})
	defer general.Stop()
	downloads := ratelimit.NewWindow(ratelimit.WindowConfig{
		Max:    cfg.RateLimit.DownloadMax,
		Window: cfg.RateLimit.Window(),
	})
	defer downloads.Stop()

	var store storage.BlobStore = storage.NewClient(cfg.Storage, log)
	var sealer *storage.Sealer
	if cfg.Storage.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.Storage.EncryptionKey)
		if err != nil {
			log.Fatalf("Error decoding storage.encryptionKey: %v", err)
		}
		sealer, err = storage.NewSealer(key)
		if err != nil {
			log.Fatalf("Error creating upload sealer: %v", err)
		}
		log.Info("upload encryption at rest enabled")
	}

	auth := api.NewAuth(log, tokens)
	server := api.NewServer(zl, cfg, debug)

	err = server.RegisterAll([]api.APIController{
		api.NewGatewayController(log, cfg, creds, tokens, auth, general, downloads, store, sealer),
	})
	if err != nil {
		log.Fatalf("Error registering filegate controllers: %v", err)
	}

	log.Infow("listening", "address", cfg.Server.ListenAddress)
	server.Listen()
}

func setupLogger(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	// Disable automatic stacktraces for non-fatal levels to avoid noisy traces in WARN/INFO logs
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	return logger
}
