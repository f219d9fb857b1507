package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
)

// LocationUseCase consulta de locales. El alta solo ocurre desde el comando seed.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// List devuelve todos los locales por nombre.
func (uc *LocationUseCase) List(ctx context.Context) ([]dto.LocationResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.LocationResponse{ID: l.ID, Name: l.Name})
	}
	return out, nil
}

// GetByID obtiene un local; nil si no existe.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil || l == nil {
		return nil, err
	}
	return &dto.LocationResponse{ID: l.ID, Name: l.Name}, nil
}

// Ensure crea el local si no existe (idempotente) y lo devuelve.
func (uc *LocationUseCase) Ensure(ctx context.Context, name string) (*dto.LocationResponse, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, domain.NewValidationError("name", "requerido")
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return &dto.LocationResponse{ID: existing.ID, Name: existing.Name}, false, nil
	}
	l := &entity.Location{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	if err := uc.repo.Create(ctx, l); err != nil {
		return nil, false, err
	}
	return &dto.LocationResponse{ID: l.ID, Name: l.Name}, true, nil
}
