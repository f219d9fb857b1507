package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/inventory"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
	"github.com/jhoicas/aleman-inventario/pkg/logger"
)

// CartUseCase administra los movimientos pendientes de una sesión y su registro conjunto.
type CartUseCase struct {
	movements   *MovementUseCase
	txRunner    TxRunner
	productRepo repository.ProductRepository
	sessionRepo repository.SessionRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewCartUseCase construye el caso de uso sobre las reglas de MovementUseCase.
func NewCartUseCase(
	movements *MovementUseCase,
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	sessionRepo repository.SessionRepository,
	log *logger.Logger,
) *CartUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CartUseCase{
		movements:   movements,
		txRunner:    txRunner,
		productRepo: productRepo,
		sessionRepo: sessionRepo,
		log:         log,
		now:         time.Now,
	}
}

// Add valida el ítem como si se registrara y lo agrega al carro. El local es siempre el activo.
func (uc *CartUseCase) Add(ctx context.Context, sess *entity.Session, in dto.RecordMovementRequest) (*dto.CartResponse, error) {
	if in.LocationID != "" && in.LocationID != sess.LocationID {
		return nil, domain.NewValidationError("location_id", "el carro usa el local activo de la sesión")
	}
	in.LocationID = ""
	if _, err := uc.movements.prepare(ctx, sess, in); err != nil {
		return nil, err
	}
	sess.Cart = append(sess.Cart, entity.CartItem{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		Type:        in.Type,
		RawQuantity: in.Quantity,
		Unit:        in.Unit,
		Place:       in.Place,
		AddedAt:     uc.now(),
	})
	if err := uc.sessionRepo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return uc.List(ctx, sess)
}

// List devuelve el carro con nombre de producto y cantidad convertida.
func (uc *CartUseCase) List(ctx context.Context, sess *entity.Session) (*dto.CartResponse, error) {
	items := make([]dto.CartItemResponse, 0, len(sess.Cart))
	for _, it := range sess.Cart {
		product, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		resp := dto.CartItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Type:         it.Type,
			Quantity:     it.RawQuantity,
			Unit:         it.Unit,
			BaseQuantity: it.RawQuantity,
			Place:        it.Place,
			AddedAt:      it.AddedAt,
		}
		if product != nil {
			resp.ProductName = product.Name
			resp.BaseUnit = product.BaseUnit
			resp.BaseQuantity = inventory.RoundBase(inventory.ToBaseUnits(it.RawQuantity, it.Unit, packSize(product)))
		}
		items = append(items, resp)
	}
	return &dto.CartResponse{LocationID: sess.LocationID, Items: items}, nil
}

// Remove quita un ítem del carro.
func (uc *CartUseCase) Remove(ctx context.Context, sess *entity.Session, itemID string) (*dto.CartResponse, error) {
	idx := -1
	for i, it := range sess.Cart {
		if it.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	sess.Cart = append(sess.Cart[:idx], sess.Cart[idx+1:]...)
	if err := uc.sessionRepo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return uc.List(ctx, sess)
}

// Clear vacía el carro sin registrar nada.
func (uc *CartUseCase) Clear(ctx context.Context, sess *entity.Session) error {
	sess.Cart = nil
	return uc.sessionRepo.Save(ctx, sess)
}

// Commit registra todos los ítems en una transacción con la misma nota de sesión y vacía el carro.
// Si un ítem falla no se escribe ninguno y el carro queda intacto.
func (uc *CartUseCase) Commit(ctx context.Context, sess *entity.Session, in dto.CommitCartRequest) (*dto.CommitCartResponse, error) {
	if len(sess.Cart) == 0 {
		return nil, domain.NewValidationError("cart", "el carro está vacío")
	}
	locationID, err := uc.movements.writableLocation(ctx, sess, "")
	if err != nil {
		return nil, err
	}
	note := in.SessionNote
	if note == "" {
		note = uuid.New().String()
	}

	saved := make([]*entity.Movement, 0, len(sess.Cart))
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		sessionRepo repository.SessionRepository,
	) error {
		for i, it := range sess.Cart {
			req := dto.RecordMovementRequest{
				ProductID: it.ProductID,
				Type:      it.Type,
				Quantity:  it.RawQuantity,
				Unit:      it.Unit,
				Place:     it.Place,
			}
			if err := validateInput(req); err != nil {
				return itemError(i, err)
			}
			product, err := productRepo.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return itemError(i, domain.ErrNotFound)
			}
			p, err := newPending(locationID, product, req)
			if err != nil {
				return itemError(i, err)
			}
			m, err := uc.movements.apply(ctx, movRepo, p, note, sess.Login)
			if err != nil {
				return itemError(i, err)
			}
			saved = append(saved, m)
		}
		emptied := *sess
		emptied.Cart = nil
		return sessionRepo.Save(ctx, &emptied)
	})
	if err != nil {
		return nil, err
	}
	sess.Cart = nil

	uc.log.Info().
		Str("session_note", note).
		Str("location_id", locationID).
		Int("items", len(saved)).
		Str("by", sess.Login).
		Msg("carro registrado")

	out := &dto.CommitCartResponse{SessionNote: note, Movements: make([]dto.MovementResponse, 0, len(saved))}
	for _, m := range saved {
		out.Movements = append(out.Movements, *toMovementResponse(m))
	}
	return out, nil
}

// itemError conserva el error de origen para errors.Is e indica la posición en el carro.
func itemError(i int, err error) error {
	return fmt.Errorf("ítem %d: %w", i+1, err)
}
