// Package cartcodec serializa el carro de una sesión para guardarlo como bytes en el almacenamiento.
package cartcodec

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
)

// item es la forma en el cable; las cantidades viajan como texto para no perder precisión.
type item struct {
	ID          string `msgpack:"id"`
	ProductID   string `msgpack:"product_id"`
	Type        string `msgpack:"type"`
	RawQuantity string `msgpack:"qty"`
	Unit        string `msgpack:"unit,omitempty"`
	Place       string `msgpack:"place,omitempty"`
	AddedAtMs   int64  `msgpack:"added_at"`
}

// Encode devuelve nil para un carro vacío.
func Encode(cart []entity.CartItem) ([]byte, error) {
	if len(cart) == 0 {
		return nil, nil
	}
	wire := make([]item, 0, len(cart))
	for _, c := range cart {
		wire = append(wire, item{
			ID:          c.ID,
			ProductID:   c.ProductID,
			Type:        c.Type,
			RawQuantity: c.RawQuantity.String(),
			Unit:        c.Unit,
			Place:       c.Place,
			AddedAtMs:   c.AddedAt.UnixMilli(),
		})
	}
	b, err := msgpack.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("cartcodec: encode: %w", err)
	}
	return b, nil
}

// Decode acepta nil o vacío como carro vacío.
func Decode(b []byte) ([]entity.CartItem, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var wire []item
	if err := msgpack.Unmarshal(b, &wire); err != nil {
		return nil, fmt.Errorf("cartcodec: decode: %w", err)
	}
	cart := make([]entity.CartItem, 0, len(wire))
	for _, w := range wire {
		qty, err := decimal.NewFromString(w.RawQuantity)
		if err != nil {
			return nil, fmt.Errorf("cartcodec: cantidad %q: %w", w.RawQuantity, err)
		}
		cart = append(cart, entity.CartItem{
			ID:          w.ID,
			ProductID:   w.ProductID,
			Type:        w.Type,
			RawQuantity: qty,
			Unit:        w.Unit,
			Place:       w.Place,
			AddedAt:     time.UnixMilli(w.AddedAtMs).UTC(),
		})
	}
	return cart, nil
}
