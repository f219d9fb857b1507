package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/inventory"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
)

// Unidades de presentación del reporte de stock.
const (
	ReportUnitBase = "base"
	ReportUnitPack = "pack"
)

// AllLocationsLabel nombre del reporte consolidado.
const AllLocationsLabel = "Todos los locales"

// StockUseCase proyecta el libro de movimientos en stock actual.
type StockUseCase struct {
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	renderer     StockPDFRenderer
	now          func() time.Time
}

// NewStockUseCase construye el caso de uso. renderer puede ser nil si no se exporta PDF.
func NewStockUseCase(
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	renderer StockPDFRenderer,
) *StockUseCase {
	return &StockUseCase{
		movementRepo: movementRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		renderer:     renderer,
		now:          time.Now,
	}
}

// Project agrega el libro por producto para un local (o todos con locationID vacío).
// Los productos sin movimientos no aparecen.
func (uc *StockUseCase) Project(ctx context.Context, locationID, unit string) (*dto.StockReportResponse, error) {
	if unit == "" {
		unit = ReportUnitBase
	}
	if unit != ReportUnitBase && unit != ReportUnitPack {
		return nil, domain.NewValidationError("unit", "debe ser base o pack")
	}
	name := AllLocationsLabel
	if locationID != "" {
		loc, err := uc.locationRepo.GetByID(ctx, locationID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.ErrNotFound
		}
		name = loc.Name
	}
	lines, err := uc.movementRepo.Project(ctx, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, toStockLine(l, unit == ReportUnitPack))
	}
	return &dto.StockReportResponse{
		LocationID:   locationID,
		LocationName: name,
		Unit:         unit,
		GeneratedAt:  uc.now(),
		Lines:        out,
	}, nil
}

// Current devuelve el saldo de un par (local, producto), en base y en packs.
func (uc *StockUseCase) Current(ctx context.Context, locationID, productID string) (*dto.StockLineResponse, error) {
	if locationID == "" {
		return nil, domain.NewValidationError("location_id", "requerido")
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	balance, err := uc.movementRepo.Balance(ctx, locationID, productID)
	if err != nil {
		return nil, err
	}
	line := toStockLine(entity.StockLine{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Format:    product.Format,
		BaseUnit:  product.BaseUnit,
		PackSize:  packSize(product),
		Quantity:  balance,
	}, true)
	return &line, nil
}

// RenderPDF genera el reporte de stock en PDF.
func (uc *StockUseCase) RenderPDF(ctx context.Context, locationID, unit string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, domain.ErrNotFound
	}
	report, err := uc.Project(ctx, locationID, unit)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderStockPDF(ctx, report)
}

func toStockLine(l entity.StockLine, withPacks bool) dto.StockLineResponse {
	if l.PackSize <= 0 {
		l.PackSize = inventory.ParsePackFactor(l.Format)
	}
	out := dto.StockLineResponse{
		ProductID: l.ProductID,
		SKU:       l.SKU,
		Name:      l.Name,
		Format:    l.Format,
		BaseUnit:  l.BaseUnit,
		PackSize:  l.PackSize,
		Quantity:  l.Quantity,
	}
	if withPacks {
		packs := inventory.ToPackUnits(l.Quantity, l.PackSize)
		out.PackQuantity = &packs
	}
	return out
}
