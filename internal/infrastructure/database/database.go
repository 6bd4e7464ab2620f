package database

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/jsau/apiserver/internal/infrastructure/config"
	"github.com/jsau/apiserver/internal/infrastructure/logger"
)

// DB wraps the embedded BadgerDB used by the badger favorites backend
type DB struct {
	DB  *badger.DB
	dir string
}

// New opens (or creates) the Badger database in cfg.BadgerDir
func New(cfg config.StorageConfig, appLogger *logger.Logger) (*DB, error) {
	opts := badger.DefaultOptions(cfg.BadgerDir)
	if appLogger != nil {
		opts.Logger = badgerLogger{appLogger.WithComponent("badger")}
	} else {
		opts.Logger = nil
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &DB{
		DB:  db,
		dir: cfg.BadgerDir,
	}, nil
}

// Close closes the database
func (db *DB) Close() error {
	if db.DB != nil {
		return db.DB.Close()
	}
	return nil
}

// HealthCheck checks database health
func (db *DB) HealthCheck() error {
	if db.DB == nil || db.DB.IsClosed() {
		return fmt.Errorf("badger database at %s is closed", db.dir)
	}
	return db.DB.View(func(txn *badger.Txn) error { return nil })
}

// GetInfo returns on-disk size information
func (db *DB) GetInfo() map[string]interface{} {
	lsm, vlog := db.DB.Size()

	return map[string]interface{}{
		"dir":        db.dir,
		"lsm_bytes":  lsm,
		"vlog_bytes": vlog,
	}
}

// badgerLogger routes badger's internal logging through zap
type badgerLogger struct {
	l *logger.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{})   { b.l.Errorf(format, args...) }
func (b badgerLogger) Warningf(format string, args ...interface{}) { b.l.Warnf(format, args...) }
func (b badgerLogger) Infof(format string, args ...interface{})    { b.l.Debugf(format, args...) }
func (b badgerLogger) Debugf(format string, args ...interface{})   { b.l.Debugf(format, args...) }
