// Command fetch-maps joins the maps of the KZTimer Global API with the KZ:GO
// metadata and writes the maps and courses tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kiltia/kzseed"
	"github.com/kiltia/kzseed/config"
	"github.com/kiltia/kzseed/pkg/log"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}
	sync, err := log.Init(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer sync()

	if err := run(ctx, cfg); err != nil {
		zap.S().Fatalw("fetch-maps failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	seeder, err := kzseed.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := seeder.Close(); err != nil {
			zap.S().Warnw("closing seeder", "error", err)
		}
	}()
	return seeder.Maps(ctx)
}
