// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
func Create(dbCfg *config.Config) string {
	switch dbCfg.DB.GormEngine {
	case config.GormEnginePostgres:
		return postgres(dbCfg.DB)
	case config.GormEngineSQLite:
		return sqlite(dbCfg.DB)
	default:
		return mysql(dbCfg.DB)
	}
}

func mysql(db config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.Extras,
	)
}

// postgres builds a URL DSN so credentials with special characters survive.
func postgres(db config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     "/" + db.Name,
		RawQuery: db.Extras,
	}

	return u.String()
}

// sqlite uses Name as the database file, Extras become pragma query parameters.
func sqlite(db config.DB) string {
	name := db.Name
	if name == "" {
		name = "blackwork.db"
	}

	if db.Extras == "" {
		return name
	}

	return name + "?" + strings.TrimPrefix(db.Extras, "?")
}
