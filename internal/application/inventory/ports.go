package inventory

import (
	"context"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Dentro de fn solo deben usarse estos repositorios: con SQLite la tx ocupa la única conexión.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		sessionRepo repository.SessionRepository,
	) error) error
}

// StockPDFRenderer genera el reporte de stock en PDF.
type StockPDFRenderer interface {
	RenderStockPDF(ctx context.Context, report *dto.StockReportResponse) ([]byte, error)
}
