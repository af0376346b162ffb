package daemon

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/webtest"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := webtest.NewConfig()
	cfg.DB = config.DB{
		GormEngine: config.GormEngineSQLite,
		Name:       filepath.Join(t.TempDir(), "blackwork.db"),
	}
	cfg.Webserver.Session.Storage = config.SessionStorageMemory

	return cfg
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestNewMigratesSQLite(t *testing.T) {
	d, err := New(sqliteConfig(t))
	require.NoError(t, err)

	t.Cleanup(func() {
		d.webService.Shutdown()
		require.NoError(t, d.close())
	})

	for _, m := range Models() {
		assert.True(t, d.db.Migrator().HasTable(m), "%T", m)
	}

	assert.Nil(t, d.sessionStorage)
}

func TestSessionStorageFallsBackToMemoryForSQLite(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Webserver.Session.Storage = config.SessionStorageDatabase

	storage, err := newSessionStorage(cfg)
	require.NoError(t, err)
	assert.Nil(t, storage)
}

func TestOpenDBFailsForUnreachableMySQL(t *testing.T) {
	cfg := &config.Config{DB: config.DB{
		GormEngine: config.GormEngineMySQL,
		Host:       "127.0.0.1",
		Port:       1,
		User:       "nobody",
		Name:       "blackwork",
	}}

	_, err := OpenDB(cfg)
	require.Error(t, err)
}
