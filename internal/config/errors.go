package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine is returned when db.gormEngine names a driver we do not ship.
	ErrUnknownGormEngine = errors.New("config db.gormEngine must be one of mysql, postgres or sqlite")

	// ErrUnknownSessionStorage is returned when webserver.session.storage is not supported.
	ErrUnknownSessionStorage = errors.New("config webserver.session.storage must be one of database, redis or memory")
)
