// Package pricefile lee listas de precios "codigo;precio" exportadas desde planillas,
// en UTF-8 o ISO-8859-1.
package pricefile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// Row una línea válida del archivo.
type Row struct {
	Line  int
	Code  string
	Price decimal.Decimal
}

// Result filas válidas y un mensaje por cada línea descartada.
type Result struct {
	Rows    []Row
	Skipped []string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode devuelve el contenido en UTF-8. Si no es UTF-8 válido se interpreta como ISO-8859-1.
func Decode(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return raw, nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("pricefile: decodificar ISO-8859-1: %w", err)
	}
	return out, nil
}

// ParsePrice acepta coma o punto decimal ("1234,50", "1234.50"). Rechaza negativos.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("precio %q inválido", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("precio %s negativo", d.String())
	}
	return d, nil
}

// Read parsea el archivo completo. Una primera línea con encabezado "codigo" se ignora.
// Si un código se repite vale la última aparición.
func Read(r io.Reader) (*Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pricefile: leer: %w", err)
	}
	data, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	res := &Result{}
	index := make(map[string]int)
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("pricefile: línea %d: %w", line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "codigo") {
			continue
		}
		if len(rec) < 2 {
			res.Skipped = append(res.Skipped, fmt.Sprintf("línea %d: se esperaban 2 columnas", line))
			continue
		}
		code := strings.TrimSpace(rec[0])
		if code == "" {
			res.Skipped = append(res.Skipped, fmt.Sprintf("línea %d: código vacío", line))
			continue
		}
		price, err := ParsePrice(rec[1])
		if err != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("línea %d: %v", line, err))
			continue
		}
		row := Row{Line: line, Code: code, Price: price}
		if i, ok := index[code]; ok {
			res.Rows[i] = row
			continue
		}
		index[code] = len(res.Rows)
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// Codes códigos en el orden del archivo.
func (r *Result) Codes() []string {
	out := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		out = append(out, row.Code)
	}
	return out
}
