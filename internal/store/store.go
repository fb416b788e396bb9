package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dgraph-io/badger/v4"
	_ "github.com/glebarez/go-sqlite" // Pure Go SQLite driver
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gmsas95/lifetrack/internal/config"
	apperrors "github.com/gmsas95/lifetrack/internal/errors"
)

// Store provides unified access to SQLite and BadgerDB
type Store struct {
	db        *gorm.DB
	badger    *badger.DB
	chatLimit int
}

// Open creates a Store from the storage config. An empty BadgerPath keeps
// chat history in memory.
func Open(cfg config.StorageConfig) (*Store, error) {
	sqliteDB, err := sql.Open("sqlite", cfg.SQLitePath+"?_journal=WAL&_synchronous=NORMAL&_busy_timeout=5000&_cache_size=-64000")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStoreOpen.Code, "failed to open sqlite")
	}

	sqliteDB.SetMaxOpenConns(10)
	sqliteDB.SetMaxIdleConns(5)
	sqliteDB.SetConnMaxLifetime(time.Hour)

	db, err := gorm.Open(sqlite.Dialector{Conn: sqliteDB}, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStoreOpen.Code, "failed to open sqlite")
	}

	badgerOpts := badger.DefaultOptions(cfg.BadgerPath).
		WithLogger(nil).
		WithNumVersionsToKeep(1).
		WithCompactL0OnClose(true).
		WithValueLogFileSize(16 << 20).
		WithMemTableSize(16 << 20)
	if cfg.BadgerPath == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStoreOpen.Code, "failed to open badger")
	}

	s, err := New(db, badgerDB, cfg.ChatLimit)
	if err != nil {
		badgerDB.Close()
		return nil, err
	}
	return s, nil
}

// New wraps already opened databases and migrates the schema
func New(db *gorm.DB, kv *badger.DB, chatLimit int) (*Store, error) {
	if err := db.AutoMigrate(&Transaction{}, &Event{}, &Budget{}); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStoreOpen.Code, "failed to migrate")
	}
	if chatLimit <= 0 {
		chatLimit = 50
	}
	return &Store{db: db, badger: kv, chatLimit: chatLimit}, nil
}

// Close closes all database connections
func (s *Store) Close() error {
	var errs []error
	if sqlDB, err := s.db.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	errs = append(errs, s.badger.Close())
	return stderrors.Join(errs...)
}

// DB returns the GORM database instance
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks that SQLite answers
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
	clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

func validDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func validMonth(s string) bool {
	return monthRe.MatchString(s)
}

func badRequest(msg string) error {
	return apperrors.New(apperrors.ErrBadRequest.Code, msg)
}

func notFound(kind, id string) error {
	return apperrors.New(apperrors.ErrNotFound.Code, fmt.Sprintf("%s %s not found", kind, id))
}

func readErr(err error, kind, id string) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(kind, id)
	}
	return apperrors.Wrap(err, apperrors.ErrStoreRead.Code, "failed to load "+kind)
}

func writeErr(err error, kind string) error {
	return apperrors.Wrap(err, apperrors.ErrStoreWrite.Code, "failed to save "+kind)
}

// ==================== KV Methods (BadgerDB) ====================

// SetKV stores a key-value pair
func (s *Store) SetKV(key string, value []byte) error {
	return s.badger.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("kv:"+key), value)
	})
}

// GetKV retrieves a value by key
func (s *Store) GetKV(key string) ([]byte, error) {
	var val []byte
	err := s.badger.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("kv:" + key))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			val = append([]byte{}, v...)
			return nil
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, notFound("key", key)
	}
	return val, err
}
