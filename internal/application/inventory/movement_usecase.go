package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/inventory"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
	"github.com/jhoicas/aleman-inventario/pkg/logger"
)

// MovementUseCase registra y consulta movimientos del libro.
// Cada escritura ocurre dentro de una transacción; con rejectNegative el par (local, producto)
// se bloquea antes de leer el saldo, de modo que la verificación y la escritura son atómicas.
type MovementUseCase struct {
	txRunner       TxRunner
	productRepo    repository.ProductRepository
	locationRepo   repository.LocationRepository
	movementRepo   repository.MovementRepository
	rejectNegative bool
	places         []string
	log            *logger.Logger
	now            func() time.Time
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	movementRepo repository.MovementRepository,
	rejectNegative bool,
	places []string,
	log *logger.Logger,
) *MovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MovementUseCase{
		txRunner:       txRunner,
		productRepo:    productRepo,
		locationRepo:   locationRepo,
		movementRepo:   movementRepo,
		rejectNegative: rejectNegative,
		places:         places,
		log:            log,
		now:            time.Now,
	}
}

// Options devuelve tipos, unidades y ubicaciones para el formulario de registro.
func (uc *MovementUseCase) Options() dto.MovementOptionsResponse {
	units := make([]string, 0, len(inventory.InputUnits))
	for _, u := range inventory.InputUnits {
		units = append(units, string(u))
	}
	return dto.MovementOptionsResponse{
		Types:  []string{entity.MovementTypeEntrada, entity.MovementTypeSalida, entity.MovementTypeAjuste, entity.MovementTypeConteo},
		Units:  units,
		Places: uc.places,
	}
}

// pending es un movimiento validado y convertido a unidad base, aún sin signo de tipo.
type pending struct {
	locationID string
	product    *entity.Product
	typ        string
	base       decimal.Decimal
	place      string
}

// Record valida, convierte y registra un movimiento para la sesión.
func (uc *MovementUseCase) Record(ctx context.Context, sess *entity.Session, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	p, err := uc.prepare(ctx, sess, in)
	if err != nil {
		return nil, err
	}
	note := in.SessionNote
	if note == "" {
		note = uuid.New().String()
	}
	var saved *entity.Movement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.ProductRepository,
		_ repository.SessionRepository,
	) error {
		var applyErr error
		saved, applyErr = uc.apply(ctx, movRepo, p, note, sess.Login)
		return applyErr
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", saved.ID).
		Str("type", saved.Type).
		Str("location_id", saved.LocationID).
		Str("product_id", saved.ProductID).
		Str("quantity", saved.Quantity.String()).
		Str("by", sess.Login).
		Msg("movimiento registrado")
	return toMovementResponse(saved), nil
}

// prepare valida la entrada y resuelve producto y local. No escribe nada.
func (uc *MovementUseCase) prepare(ctx context.Context, sess *entity.Session, in dto.RecordMovementRequest) (*pending, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	locationID, err := uc.writableLocation(ctx, sess, in.LocationID)
	if err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return newPending(locationID, product, in)
}

// validateInput aplica las reglas de cantidad y unidad según el tipo.
func validateInput(in dto.RecordMovementRequest) error {
	if !inventory.ValidMovementType(in.Type) {
		return domain.NewValidationError("type", "tipo de movimiento desconocido")
	}
	if in.ProductID == "" {
		return domain.NewValidationError("product_id", "requerido")
	}
	if in.Quantity.IsNegative() && in.Type != entity.MovementTypeAjuste {
		return domain.NewValidationError("quantity", "no puede ser negativa")
	}
	if in.Quantity.IsZero() && in.Type != entity.MovementTypeConteo {
		return domain.NewValidationError("quantity", "debe ser distinta de cero")
	}
	if in.Unit != "" {
		if _, ok := inventory.NormalizeUnit(in.Unit); !ok {
			return domain.NewValidationError("unit", "unidad desconocida")
		}
	}
	return nil
}

// newPending convierte a unidad base y redondea a la escala del libro; lo que se valida es
// exactamente lo que se guarda.
func newPending(locationID string, product *entity.Product, in dto.RecordMovementRequest) (*pending, error) {
	base, err := baseQuantity(in.Type, in.Quantity, in.Unit, product)
	if err != nil {
		return nil, err
	}
	return &pending{
		locationID: locationID,
		product:    product,
		typ:        in.Type,
		base:       base,
		place:      in.Place,
	}, nil
}

func baseQuantity(typ string, raw decimal.Decimal, unit string, product *entity.Product) (decimal.Decimal, error) {
	base := inventory.RoundBase(inventory.ToBaseUnits(raw, unit, packSize(product)))
	if base.IsZero() && !raw.IsZero() && typ != entity.MovementTypeConteo {
		return decimal.Zero, domain.NewValidationError("quantity", "menor que la mínima registrable (0.001 en unidad base)")
	}
	if !inventory.WithinBounds(base) {
		return decimal.Zero, domain.NewValidationError("quantity", "fuera de rango")
	}
	return base, nil
}

// writableLocation resuelve el local de escritura: staff solo en su local activo.
func (uc *MovementUseCase) writableLocation(ctx context.Context, sess *entity.Session, requested string) (string, error) {
	if !sess.HasRole(entity.RoleAdmin) && !sess.HasRole(entity.RoleStaff) {
		return "", domain.ErrForbidden
	}
	locationID := requested
	if locationID == "" {
		locationID = sess.LocationID
	}
	if locationID == "" {
		return "", domain.NewValidationError("location_id", "la sesión no tiene local activo")
	}
	if locationID != sess.LocationID && !sess.HasRole(entity.RoleAdmin) {
		return "", domain.ErrForbidden
	}
	loc, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return "", err
	}
	if loc == nil {
		return "", domain.ErrNotFound
	}
	return locationID, nil
}

// apply firma la cantidad según el tipo y escribe la fila. Debe correr dentro de la transacción.
func (uc *MovementUseCase) apply(ctx context.Context, movRepo repository.MovementRepository, p *pending, note, by string) (*entity.Movement, error) {
	qty := inventory.SignedQuantity(p.typ, p.base)
	if p.typ == entity.MovementTypeConteo || (uc.rejectNegative && qty.IsNegative()) {
		if err := movRepo.LockPair(ctx, p.locationID, p.product.ID); err != nil {
			return nil, err
		}
		current, err := movRepo.Balance(ctx, p.locationID, p.product.ID)
		if err != nil {
			return nil, err
		}
		if p.typ == entity.MovementTypeConteo {
			qty = inventory.CountDelta(p.base, current)
			if !inventory.WithinBounds(qty) {
				return nil, domain.NewValidationError("quantity", "fuera de rango")
			}
		}
		if !inventory.Allows(uc.rejectNegative, current, qty) {
			return nil, domain.ErrInsufficientStock
		}
	}
	m := &entity.Movement{
		ID:          uuid.New().String(),
		LocationID:  p.locationID,
		ProductID:   p.product.ID,
		Type:        p.typ,
		Quantity:    qty,
		Place:       p.place,
		SessionNote: note,
		CreatedAt:   uc.now(),
		CreatedBy:   by,
	}
	if err := movRepo.Append(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Correct reescribe la cantidad de un movimiento histórico (solo admin).
// La nueva cantidad se convierte y firma igual que al registrar; CONTEO se trata como AJUSTE.
func (uc *MovementUseCase) Correct(ctx context.Context, sess *entity.Session, id string, in dto.CorrectMovementRequest) (*dto.MovementResponse, error) {
	if !sess.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if in.Unit != "" {
		if _, ok := inventory.NormalizeUnit(in.Unit); !ok {
			return nil, domain.NewValidationError("unit", "unidad desconocida")
		}
	}
	at := uc.now()

	var before, after *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.SessionRepository,
	) error {
		existing, err := movRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if in.Quantity.IsNegative() && existing.Type != entity.MovementTypeAjuste && existing.Type != entity.MovementTypeConteo {
			return domain.NewValidationError("quantity", "no puede ser negativa")
		}
		product, err := productRepo.GetByID(ctx, existing.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		base, err := baseQuantity(existing.Type, in.Quantity, in.Unit, product)
		if err != nil {
			return err
		}
		qty := inventory.SignedQuantity(existing.Type, base)

		if delta := qty.Sub(existing.Quantity); uc.rejectNegative && delta.IsNegative() {
			if err := movRepo.LockPair(ctx, existing.LocationID, existing.ProductID); err != nil {
				return err
			}
			current, err := movRepo.Balance(ctx, existing.LocationID, existing.ProductID)
			if err != nil {
				return err
			}
			if !inventory.Allows(true, current, delta) {
				return domain.ErrInsufficientStock
			}
		}
		if err := movRepo.CorrectQuantity(ctx, id, qty, sess.Login, at); err != nil {
			return err
		}
		before = existing
		after, err = movRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Warn().
		Str("movement_id", id).
		Str("from", before.Quantity.String()).
		Str("to", after.Quantity.String()).
		Str("by", sess.Login).
		Msg("movimiento corregido")
	return toMovementResponse(after), nil
}

// List devuelve el historial filtrado. Staff y reportes ven solo su local activo salvo admin.
func (uc *MovementUseCase) List(ctx context.Context, sess *entity.Session, filter repository.MovementFilter, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	if !sess.HasRole(entity.RoleAdmin) && !sess.HasRole(entity.RoleReportes) {
		if sess.LocationID == "" {
			return nil, domain.ErrForbidden
		}
		filter.LocationID = sess.LocationID
	}
	filter.Limit, filter.Offset = page.Limit, page.Offset
	list, err := uc.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// packSize usa el factor explícito y, si falta, el que indica el texto de formato.
func packSize(p *entity.Product) int {
	if p.PackSize > 0 {
		return p.PackSize
	}
	return inventory.ParsePackFactor(p.Format)
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:          m.ID,
		LocationID:  m.LocationID,
		ProductID:   m.ProductID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		Place:       m.Place,
		SessionNote: m.SessionNote,
		CreatedAt:   m.CreatedAt,
		CreatedBy:   m.CreatedBy,
		CorrectedAt: m.CorrectedAt,
		CorrectedBy: m.CorrectedBy,
	}
}
