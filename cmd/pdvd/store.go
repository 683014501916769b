package main

import (
	"context"
	"fmt"

	"github.com/adrestia/pdv/pkg/config"
	"github.com/adrestia/pdv/pkg/store"
	"github.com/adrestia/pdv/pkg/store/filestore"
	"github.com/adrestia/pdv/pkg/store/memstore"
	"github.com/adrestia/pdv/pkg/store/sqlitestore"
	"github.com/sirupsen/logrus"
)

// openStore builds the configured backend and provisions it.
func openStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (store.Store, error) {
	var st store.Store
	switch cfg.Backend {
	case config.BackendFile:
		st = filestore.New(cfg.ResultsDir, logger)
	case config.BackendSQLite:
		st = sqlitestore.New(cfg.ResultsDir, logger)
	case config.BackendMemory:
		st = memstore.New()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	if err := st.Init(ctx); err != nil {
		return nil, err
	}
	logger.Infof("Using %s store at %s", cfg.Backend, cfg.ResultsDir)
	return st, nil
}
