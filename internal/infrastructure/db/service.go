package db

import (
	"embed"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/arkade-os/nftbridge/internal/core/domain"
	"github.com/arkade-os/nftbridge/internal/core/ports"
	badgerdb "github.com/arkade-os/nftbridge/internal/infrastructure/db/badger"
	leveldb "github.com/arkade-os/nftbridge/internal/infrastructure/db/leveldb"
	pgdb "github.com/arkade-os/nftbridge/internal/infrastructure/db/postgres"
	sqlitedb "github.com/arkade-os/nftbridge/internal/infrastructure/db/sqlite"
	watermilldb "github.com/arkade-os/nftbridge/internal/infrastructure/db/watermill"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

//go:embed sqlite/migration/*
var migrations embed.FS

//go:embed postgres/migration/*
var pgMigration embed.FS

var (
	eventStoreTypes = map[string]func(...interface{}) (domain.EventRepository, error){
		"inmemory": newInMemoryEventRepository,
		"postgres": newPostgresEventRepository,
	}
	ledgerStoreTypes = map[string]func(...interface{}) (domain.LedgerRepository, error){
		"badger":   badgerdb.NewLedgerRepository,
		"sqlite":   sqlitedb.NewLedgerRepository,
		"postgres": pgdb.NewLedgerRepository,
		"leveldb":  leveldb.NewLedgerRepository,
	}
)

const (
	sqliteDbFile = "sqlite.db"
)

type ServiceConfig struct {
	EventStoreType string
	DataStoreType  string

	EventStoreConfig []interface{}
	DataStoreConfig  []interface{}
}

type service struct {
	eventStore  domain.EventRepository
	ledgerStore domain.LedgerRepository
}

func NewService(config ServiceConfig) (ports.RepoManager, error) {
	eventStoreFactory, ok := eventStoreTypes[config.EventStoreType]
	if !ok {
		return nil, fmt.Errorf("event store type not supported")
	}
	ledgerStoreFactory, ok := ledgerStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("invalid data store type: %s", config.DataStoreType)
	}

	eventStore, err := eventStoreFactory(config.EventStoreConfig...)
	if err != nil {
		return nil, fmt.Errorf("failed to open event store: %s", err)
	}

	var ledgerStore domain.LedgerRepository
	switch config.DataStoreType {
	case "badger", "leveldb":
		ledgerStore, err = ledgerStoreFactory(config.DataStoreConfig...)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger store: %s", err)
		}
	case "postgres":
		dsn, autoCreate, err := parsePostgresConfig(config.DataStoreConfig)
		if err != nil {
			return nil, err
		}

		db, err := pgdb.OpenDb(dsn, autoCreate)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres db: %s", err)
		}

		pgDriver, err := migratepg.WithInstance(db, &migratepg.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to init postgres migration driver: %s", err)
		}

		source, err := iofs.New(pgMigration, "postgres/migration")
		if err != nil {
			return nil, fmt.Errorf("failed to embed postgres migrations: %s", err)
		}

		m, err := migrate.NewWithInstance("iofs", source, "postgres", pgDriver)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres migration instance: %s", err)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return nil, fmt.Errorf("failed to run postgres migrations: %s", err)
		}

		ledgerStore, err = ledgerStoreFactory(db)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger store: %s", err)
		}
	case "sqlite":
		if len(config.DataStoreConfig) != 1 {
			return nil, fmt.Errorf("invalid data store config")
		}

		baseDir, ok := config.DataStoreConfig[0].(string)
		if !ok {
			return nil, fmt.Errorf("invalid base directory")
		}

		dbFile := filepath.Join(baseDir, sqliteDbFile)
		db, err := sqlitedb.OpenDb(dbFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %s", err)
		}

		driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to init driver: %s", err)
		}

		source, err := iofs.New(migrations, "sqlite/migration")
		if err != nil {
			return nil, fmt.Errorf("failed to embed migrations: %s", err)
		}

		m, err := migrate.NewWithInstance("iofs", source, "nftbridgedb", driver)
		if err != nil {
			return nil, fmt.Errorf("failed to create migration instance: %s", err)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return nil, fmt.Errorf("failed to run migrations: %s", err)
		}

		ledgerStore, err = ledgerStoreFactory(db)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger store: %s", err)
		}
	}

	log.Debugf(
		"opened %s ledger store and %s event store", config.DataStoreType, config.EventStoreType,
	)

	return &service{
		eventStore:  eventStore,
		ledgerStore: ledgerStore,
	}, nil
}

func (s *service) Ledger() domain.LedgerRepository {
	return s.ledgerStore
}

func (s *service) Events() domain.EventRepository {
	return s.eventStore
}

func (s *service) Close() {
	s.eventStore.Close()
	s.ledgerStore.Close()
}

func newInMemoryEventRepository(_ ...interface{}) (domain.EventRepository, error) {
	publisher := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	return watermilldb.NewWatermillEventRepository(publisher), nil
}

// newPostgresEventRepository persists every published event in a watermill table.
func newPostgresEventRepository(config ...interface{}) (domain.EventRepository, error) {
	dsn, autoCreate, err := parsePostgresConfig(config)
	if err != nil {
		return nil, err
	}

	db, err := pgdb.OpenDb(dsn, autoCreate)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres db: %s", err)
	}

	var publisher message.Publisher
	publisher, err = watermillsql.NewPublisher(
		watermillsql.BeginnerFromStdSQL(db),
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: true,
		},
		watermill.NopLogger{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create watermill publisher: %s", err)
	}

	return watermilldb.NewWatermillEventRepository(publisher), nil
}

func parsePostgresConfig(config []interface{}) (string, bool, error) {
	if len(config) != 2 {
		return "", false, fmt.Errorf("invalid store config for postgres")
	}

	dsn, ok := config[0].(string)
	if !ok {
		return "", false, fmt.Errorf("invalid DSN for postgres")
	}

	autoCreate, ok := config[1].(bool)
	if !ok {
		return "", false, fmt.Errorf("invalid autocreate flag for postgres")
	}
	return dsn, autoCreate, nil
}
