package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/etnz/contract"
	"github.com/etnz/contract/config"
	"github.com/etnz/contract/events"
	"github.com/etnz/contract/store"
)

// loadConfig returns the configuration with the global flags applied.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return config.Config{}, err
	}
	if *ownerFlag != "" {
		cfg.Owner = *ownerFlag
	}
	if *driverFlag != "" {
		cfg.Driver = *driverFlag
	}
	if *dsnFlag != "" {
		cfg.DSN = *dsnFlag
	}
	if *Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger returns the text logger on stderr for cfg and makes it the default.
func newLogger(cfg config.Config) *slog.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// publishTimeout bounds the publication of the events of one command.
var publishTimeout = 10 * time.Second

// session holds what a command needs for one invocation.
type session struct {
	cfg       config.Config
	log       *slog.Logger
	store     *store.Store
	contract  *contract.Contract // nil unless opened with openContract
	publisher events.Publisher
}

// openStore loads the configuration and opens the store.
func openStore(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)
	s, err := store.Open(ctx, cfg.Driver, cfg.DSN, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.Kafka.Enabled() {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	}
	return &session{cfg: cfg, log: logger, store: s, publisher: publisher}, nil
}

// openContract is like openStore and also loads the contract of the
// configured owner.
func openContract(ctx context.Context) (*session, error) {
	sess, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	sess.contract, err = contract.Open(ctx, sess.store, sess.cfg.Owner)
	if err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}

// Close releases the publisher and the store.
func (s *session) Close() error {
	return errors.Join(s.publisher.Close(), s.store.Close())
}

// publish sends the events of txs. A failure is logged only: the
// transactions are already committed.
func (s *session) publish(ctx context.Context, txs []contract.Transaction) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	evs := events.Recorded(s.contract, s.cfg.Currency, txs)
	if err := s.publisher.Publish(ctx, evs...); err != nil {
		s.log.Warn("cannot publish transaction events", "error", err)
	}
}

// money returns minor units in the configured currency.
func (s *session) money(minor int64) contract.Money {
	return contract.M(minor, s.cfg.Currency)
}
