// Package commands contains the functionality for the set of commands
// currently supported by the speedrun-admin tool.
package commands

import (
	"errors"
	"fmt"

	"github.com/speedrunethereum/speedrun/business/sys/database"
	"gorm.io/gorm"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

func open(cfg database.Config) (*gorm.DB, func(), error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return db, closeFn, nil
}
