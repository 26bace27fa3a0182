package main

import (
	"github.com/jtai-dev/record-matcher/internal/store"
	"github.com/jtai-dev/record-matcher/pkg/config"
)

// openStore opens (creating if necessary) the run-history database
// named by cfg, initializing its schema.
func openStore(cfg *config.Config) (*store.Store, error) {
	if err := cfg.EnsureConfigDir(); err != nil {
		return nil, err
	}
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
