package database

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"intent/internal/logging"
)

type Config struct {
	FileName string `envconfig:"INTENT_DB_FILE" default:"intent.db"`
}

// DB wraps the bolt handle shared by the sample and alert stores.
type DB struct {
	DB *bolt.DB
}

func NewFromEnv(ctx context.Context, config *Config) (*DB, error) {
	logging.FromContext(ctx).Infof("opening database %s", config.FileName)

	db, err := bolt.Open(config.FileName, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open db file %s: %w", config.FileName, err)
	}

	return &DB{DB: db}, nil
}

func (db *DB) Close(ctx context.Context) error {
	logging.FromContext(ctx).Infof("closing database")

	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}
