// Package spreadsheet lee planillas (.xlsx o .csv) como filas de texto.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/aleman-inventario/internal/domain"
)

// MaxUploadBytes tamaño máximo aceptado para una planilla.
const MaxUploadBytes = 10 << 20

// Reader adapta ReadRows al puerto del caso de uso de carga masiva.
type Reader struct{}

// ReadRows ver ReadRows.
func (Reader) ReadRows(filename string, r io.Reader) ([][]string, error) {
	return ReadRows(filename, r)
}

// ReadRows devuelve las filas de la primera hoja (xlsx) o del archivo (csv), encabezado incluido.
// El formato se elige por la extensión de filename.
func ReadRows(filename string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return readXLSX(r)
	case ".csv":
		return readCSV(r)
	default:
		return nil, domain.NewValidationError("file", "solo se aceptan archivos .xlsx o .csv")
	}
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return nil, domain.NewValidationError("file", "no se pudo leer el Excel: "+err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.NewValidationError("file", "el Excel no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, domain.NewValidationError("file", "no se pudo leer la hoja "+sheets[0])
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	// Excel en español exporta CSV en Windows-1252.
	if !utf8.Valid(raw) {
		if raw, err = charmap.Windows1252.NewDecoder().Bytes(raw); err != nil {
			return nil, domain.NewValidationError("file", "codificación de texto no reconocida")
		}
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = detectDelimiter(raw)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, domain.NewValidationError("file", "CSV inválido: "+err.Error())
	}
	return rows, nil
}

// detectDelimiter elige ';' cuando la primera línea tiene más ';' que ','.
func detectDelimiter(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}
