// Package daemon wires the database, the session storage and the web service.
package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/dsn"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/session"
)

const (
	sessionTable     = "sessions"
	redisPingTimeout = 5 * time.Second
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg            *config.Config
	db             *gorm.DB
	sessionStorage fiber.Storage
	webService     *web.Service
}

// Models lists every table the dashboard migrates on start.
func Models() []any {
	return []any{
		&models.User{},
		&models.Profile{},
		&models.OptionalPreference{},
		&models.VoiceAgent{},
		&models.WebhookEvent{},
		&models.Setting{},
	}
}

// Start serves until SIGINT or SIGTERM and releases the database and session storage afterwards.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go func() {
		log.Info().Str("addr", addr).Str("url", d.cfg.Webserver.URL).Msg("starting web service")

		if err := d.webService.Start(addr); err != nil {
			log.Error().Err(err).Msg("web service stopped")
		}
	}()

	d.webService.WaitShutdown()

	return d.close()
}

func (d *Daemon) close() error {
	if d.sessionStorage != nil {
		if err := d.sessionStorage.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close session storage")
		}
	}

	sqlDB, err := d.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get database handle")
	}

	return errors.Wrap(sqlDB.Close(), "failed to close database")
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(Models()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	storage, err := newSessionStorage(cfg)
	if err != nil {
		return nil, err
	}

	session.Init(storage)

	webService, err := web.New(cfg, db)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create web service")
	}

	return &Daemon{
		cfg:            cfg,
		db:             db,
		sessionStorage: storage,
		webService:     webService,
	}, nil
}

// OpenDB opens the database of the configured gorm engine.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	source := dsn.Create(cfg)

	switch cfg.DB.GormEngine {
	case config.GormEnginePostgres:
		dialector = gormpostgres.Open(source)
	case config.GormEngineSQLite:
		dialector = sqlite.Open(source)
	default:
		dialector = gormmysql.Open(source)
	}

	logLevel := gormlogger.Warn
	if cfg.DevMode {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.GormEngine)
	}

	return db, nil
}

// newSessionStorage returns nil for the in-process memory store.
func newSessionStorage(cfg *config.Config) (fiber.Storage, error) {
	switch cfg.Webserver.Session.Storage {
	case config.SessionStorageRedis:
		storage := session.NewRedisStorage(cfg.Webserver.Session)

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()

		if err := storage.Ping(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to reach session redis")
		}

		return storage, nil
	case config.SessionStorageMemory:
		log.Warn().Msg("sessions are kept in memory and are lost on restart")

		return nil, nil //nolint:nilnil
	}

	switch cfg.DB.GormEngine {
	case config.GormEnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		}), nil
	case config.GormEngineSQLite:
		log.Warn().Msg("no database session storage for sqlite, sessions are kept in memory")

		return nil, nil //nolint:nilnil
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		}), nil
	}
}
