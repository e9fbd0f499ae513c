package root

import (
	"context"
	"database/sql"

	"habitline/internal/config"
	"habitline/internal/engine"
	"habitline/internal/storage"
)

func openDB(ctx context.Context, cfg config.Config) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

func openService(ctx context.Context) (*engine.Service, config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	db, cleanup, err := openDB(ctx, cfg)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	svc := engine.NewServiceWithPolicy(db, engine.Policy{
		Curve: engine.LevelCurve{
			Coefficient: cfg.LevelCurve.Coefficient,
			Exponent:    cfg.LevelCurve.Exponent,
		},
		MilestoneTargets: cfg.MilestoneTargets,
	})
	return svc, cfg, cleanup, nil
}
