package main

import (
	"context"
	"fmt"
	"os"

	"cinema/pkg/config"
	"cinema/pkg/logger"
	"cinema/store"

	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	st, err := store.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalw("cannot connect to db", "driver", cfg.DB.Driver, "error", err)
	}

	dir := store.MigrationsDir("", st.Driver())
	total, err := st.Migrate(dir)
	_ = st.Close()
	if err != nil {
		log.Fatalw("cannot execute migration", "dir", dir, "error", err)
	}

	log.Infow("applied migrations", "dir", dir, "total", total)
}
