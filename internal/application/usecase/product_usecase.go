package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/inventory"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
)

// ProductUseCase casos de uso del maestro de productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. Sin pack_size se deduce del formato.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	if in.PackSize < 0 {
		return nil, domain.NewValidationError("pack_size", "no puede ser negativo")
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		SKU:       strings.TrimSpace(in.SKU),
		Name:      name,
		Format:    orDefault(in.Format, entity.DefaultFormat),
		PackSize:  in.PackSize,
		BaseUnit:  orDefault(in.BaseUnit, entity.DefaultBaseUnit),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if product.PackSize == 0 {
		product.PackSize = inventory.ParsePackFactor(product.Format)
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update edición en línea. Cambiar el formato sin pack_size explícito recalcula el factor.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.SKU != nil {
		product.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "requerido")
		}
		product.Name = name
	}
	if in.Format != nil {
		product.Format = orDefault(*in.Format, entity.DefaultFormat)
		if in.PackSize == nil {
			product.PackSize = inventory.ParsePackFactor(product.Format)
		}
	}
	if in.PackSize != nil {
		if *in.PackSize <= 0 {
			return nil, domain.NewValidationError("pack_size", "debe ser mayor que cero")
		}
		product.PackSize = *in.PackSize
	}
	if in.BaseUnit != nil {
		product.BaseUnit = orDefault(*in.BaseUnit, entity.DefaultBaseUnit)
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con búsqueda por nombre o SKU y paginación.
func (uc *ProductUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, strings.TrimSpace(search), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Format:    p.Format,
		PackSize:  p.PackSize,
		BaseUnit:  p.BaseUnit,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
