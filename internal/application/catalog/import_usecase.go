// Package catalog implementa la carga masiva del maestro de productos desde planillas.
package catalog

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
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

// Campos del maestro que acepta la planilla.
const (
	fieldSKU      = "sku"
	fieldName     = "name"
	fieldFormat   = "format"
	fieldPackSize = "pack_size"
	fieldBaseUnit = "base_unit"
)

// headerAliases encabezados normalizados (minúsculas, sin tildes, espacios como _) por campo.
var headerAliases = map[string]string{
	"sku": fieldSKU, "codigo": fieldSKU, "cod": fieldSKU, "code": fieldSKU, "codigo_producto": fieldSKU,

	"nombre": fieldName, "producto": fieldName, "name": fieldName, "descripcion": fieldName,
	"nombre_producto": fieldName,

	"formato": fieldFormat, "formato_medida": fieldFormat, "presentacion": fieldFormat, "format": fieldFormat,

	"pack": fieldPackSize, "pack_size": fieldPackSize, "factor": fieldPackSize, "factor_pack": fieldPackSize,
	"unidades_por_pack": fieldPackSize,

	"umb": fieldBaseUnit, "unidad_base": fieldBaseUnit, "base_unit": fieldBaseUnit, "unidad": fieldBaseUnit,
	"unidad_de_medida": fieldBaseUnit,
}

// RowReader lee una planilla como filas de texto (encabezado incluido).
type RowReader interface {
	ReadRows(filename string, r io.Reader) ([][]string, error)
}

// ImportUseCase carga el maestro de productos fila por fila (última escritura gana por clave).
type ImportUseCase struct {
	reader      RowReader
	productRepo repository.ProductRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(reader RowReader, productRepo repository.ProductRepository, log *logger.Logger) *ImportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ImportUseCase{reader: reader, productRepo: productRepo, log: log, now: time.Now}
}

// Import lee la planilla y hace upsert de cada fila. Los errores por fila no detienen la carga
// ni deshacen las filas anteriores; un encabezado inválido sí la rechaza completa.
func (uc *ImportUseCase) Import(ctx context.Context, filename string, r io.Reader) (*dto.ImportResult, error) {
	rows, err := uc.reader.ReadRows(filename, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.NewValidationError("file", "la planilla está vacía")
	}
	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{Failed: []dto.ImportRowError{}}
	for i, raw := range rows[1:] {
		rowNum := i + 2
		if blank(raw) {
			continue
		}
		result.Processed++
		product, err := uc.rowToProduct(raw, columns)
		if err != nil {
			result.Failed = append(result.Failed, dto.ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		updated, err := uc.productRepo.Upsert(ctx, product)
		if err != nil {
			if !errors.Is(err, domain.ErrConflict) {
				uc.log.Error().Err(err).Int("row", rowNum).Msg("carga masiva: error de almacenamiento")
			}
			result.Failed = append(result.Failed, dto.ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Upserted++
		if updated {
			result.Updated++
		} else {
			result.Created++
		}
	}

	uc.log.Info().
		Str("file", filename).
		Int("processed", result.Processed).
		Int("upserted", result.Upserted).
		Int("failed", len(result.Failed)).
		Msg("carga masiva de productos")
	return result, nil
}

// mapHeader asocia cada campo conocido a su índice de columna. La columna de nombre es obligatoria.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, h := range header {
		key := strings.ReplaceAll(inventory.Fold(h), " ", "_")
		field, ok := headerAliases[key]
		if !ok {
			continue
		}
		if _, dup := columns[field]; !dup {
			columns[field] = i
		}
	}
	if _, ok := columns[fieldName]; !ok {
		return nil, domain.NewValidationError("file", "falta la columna de nombre del producto")
	}
	return columns, nil
}

func (uc *ImportUseCase) rowToProduct(raw []string, columns map[string]int) (*entity.Product, error) {
	get := func(field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(raw) {
			return ""
		}
		return strings.TrimSpace(raw[idx])
	}
	name := get(fieldName)
	if name == "" {
		return nil, domain.NewValidationError("name", "vacío")
	}
	format := get(fieldFormat)
	if format == "" {
		format = entity.DefaultFormat
	}
	baseUnit := get(fieldBaseUnit)
	if baseUnit == "" {
		baseUnit = entity.DefaultBaseUnit
	}
	packSize, err := parsePackSize(get(fieldPackSize))
	if err != nil {
		return nil, err
	}
	if packSize <= 0 {
		packSize = inventory.ParsePackFactor(format)
	}
	now := uc.now()
	return &entity.Product{
		ID:        uuid.New().String(),
		SKU:       get(fieldSKU),
		Name:      name,
		Format:    format,
		PackSize:  packSize,
		BaseUnit:  baseUnit,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// parsePackSize acepta enteros y decimales enteros ("6", "6.0"); vacío es 0.
func parsePackSize(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil || d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return 0, domain.NewValidationError("pack_size", "debe ser un entero positivo")
	}
	return int(d.IntPart()), nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
