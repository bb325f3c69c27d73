package main

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/decryption/assets"
	"github.com/robalobadob/decryption/internal/config"
	"github.com/robalobadob/decryption/internal/daily"
	"github.com/robalobadob/decryption/internal/game"
	"github.com/robalobadob/decryption/internal/httpserver"
	"github.com/robalobadob/decryption/internal/ledger"
	"github.com/robalobadob/decryption/internal/store"
	"github.com/robalobadob/decryption/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := newLogger(cfg)

	rng, err := newRand(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to seed random source")
	}

	var src words.Source = words.EmbeddedSource{}
	if cfg.WordsDir != "" {
		src = words.NewDirSource(cfg.WordsDir)
	}
	catalog, err := words.Load(src, rng, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load word lists")
	}
	catalog.AddCustomWords(cfg.CustomWords)

	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open ledger store")
	}
	defer closeStore()

	led := ledger.Open(context.Background(), st, logger)
	engine, err := game.New(catalog, led, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create engine")
	}

	srv := httpserver.New(engine, led, catalog, cfg.ClientOrigin, logger)
	engine.StartRound()

	logger.Info().Str("addr", cfg.Addr).Str("ledger", cfg.LedgerBackend).Bool("daily", cfg.Daily).Msg("starting decryption")
	if err := srv.Start(cfg.Addr); err != nil {
		logger.Error().Err(err).Msg("server exited")
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	var out io.Writer = os.Stderr
	if cfg.LogFormat == "pretty" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

// newRand picks the seed: explicit seed, then daily key, then crypto/rand.
func newRand(cfg config.Config) (*rand.Rand, error) {
	switch {
	case cfg.Seed != 0:
		return rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)), nil
	case cfg.Daily:
		return daily.Rand(time.Now(), cfg.DailySalt)
	}
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, err
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))), nil
}

// openStore returns the configured ledger backend and its cleanup func.
func openStore(cfg config.Config, logger zerolog.Logger) (store.Store, func(), error) {
	switch cfg.LedgerBackend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.LedgerPath, assets.Migrations(), logger)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	case config.BackendMemory:
		return store.NewMemoryStore(), func() {}, nil
	default:
		return store.NewFileStore(cfg.LedgerPath), func() {}, nil
	}
}
