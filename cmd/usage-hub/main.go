package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/caiqy/claude-usage-hub/internal/app"
	"github.com/caiqy/claude-usage-hub/internal/config"
	"github.com/caiqy/claude-usage-hub/internal/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, errLoad := config.Load(*configPath)
	if errLoad != nil {
		log.WithError(errLoad).Fatal("load config")
	}
	logging.Setup(cfg.Log)

	command := "serve"
	if args := flag.Args(); len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log.Infof("starting usage hub (db=%s key=%s)", cfg.Database, config.MaskSecret(cfg.Anthropic.APIKey))
		if errRun := app.RunServer(ctx, cfg); errRun != nil {
			log.WithError(errRun).Fatal("server exited")
		}
	case "migrate":
		if errMigrate := app.Migrate(cfg); errMigrate != nil {
			log.WithError(errMigrate).Fatal("migrate")
		}
		log.Info("migrations applied")
	default:
		log.Fatalf("unknown command %q (expected serve or migrate)", command)
	}
}
