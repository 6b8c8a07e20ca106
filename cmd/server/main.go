package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"

	"disambig/internal/config"
	"disambig/internal/corpus"
	"disambig/internal/corrector"
	"disambig/internal/server"
	"disambig/internal/window"
)

func main() {
	cfg, err := config.Load(getenv("DISAMBIG_CONFIG", "disambig.yaml"))
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	cc, err := cfg.Corrector()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	store := corpus.NewRedisCorpus(client, cfg.Redis.Corpus)

	var trainSet []window.Example
	if cfg.Server.TrainPath != "" {
		trainSet, err = corpus.ReadFile(cfg.Server.TrainPath)
	} else {
		trainSet, err = store.Load(context.Background())
	}
	if err != nil {
		log.Fatalf("load training data: %v", err)
	}

	sc, err := corrector.NewSpellCorrector(cc, trainSet, slog.Default())
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	srv := server.New(cc, sc, store, slog.Default())

	log.Printf("listening on %s (%d training windows, %s vs %s)", cfg.Server.Addr, len(trainSet), cc.Candidate1, cc.Candidate2)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, srv.Handler()))
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
