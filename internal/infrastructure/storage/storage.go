// Package storage elige el driver configurado y entrega los repositorios listos para inyectar.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/aleman-inventario/internal/application/inventory"
	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
	"github.com/jhoicas/aleman-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/aleman-inventario/internal/infrastructure/sqlite"
	"github.com/jhoicas/aleman-inventario/pkg/config"
)

// Store repositorios sobre un mismo almacenamiento.
type Store struct {
	Driver    string
	Users     repository.UserRepository
	Sessions  repository.SessionRepository
	Locations repository.LocationRepository
	Products  repository.ProductRepository
	Movements repository.MovementRepository
	Tx        inventory.TxRunner

	ping  func(ctx context.Context) error
	close func()
}

// Open conecta según cfg.Driver y deja el esquema al día.
// Un fallo de conexión se devuelve como domain.ErrConnectivity.
func Open(ctx context.Context, cfg config.DBConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:    cfg.Driver,
			Users:     sqlite.NewUserRepository(db),
			Sessions:  sqlite.NewSessionRepository(db),
			Locations: sqlite.NewLocationRepository(db),
			Products:  sqlite.NewProductRepository(db),
			Movements: sqlite.NewMovementRepository(db),
			Tx:        sqlite.NewTxRunner(db),
			ping:      db.PingContext,
			close:     func() { _ = db.Close() },
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Driver:    cfg.Driver,
			Users:     postgres.NewUserRepository(pool),
			Sessions:  postgres.NewSessionRepository(pool),
			Locations: postgres.NewLocationRepository(pool),
			Products:  postgres.NewProductRepository(pool),
			Movements: postgres.NewMovementRepository(pool),
			Tx:        postgres.NewTxRunner(pool),
			ping:      pool.Ping,
			close:     pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
}

// Ping verifica la conexión; el error queda marcado como ErrConnectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.ping(ctx); err != nil {
		return domain.ConnectivityError(s.Driver, err)
	}
	return nil
}

// Close libera las conexiones.
func (s *Store) Close() {
	s.close()
}
