// Package catalog carga el catálogo de productos desde un CSV.
//
// Formato (con encabezado): name,category,unit[,id]
// Si la columna id falta o viene vacía se genera un UUID.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/bimal-bp/DPR/internal/domain/entity"
)

// Charsets admitidos para el archivo de entrada.
const (
	CharsetUTF8   = "utf-8"
	CharsetLatin1 = "iso-8859-1"
)

var requiredColumns = []string{"name", "category", "unit"}

// Load lee productos de r. charset vacío equivale a UTF-8.
// Nombres repetidos o categorías/unidades desconocidas son error con el número de línea.
func Load(r io.Reader, charset string) ([]entity.Product, error) {
	switch strings.ToLower(charset) {
	case "", CharsetUTF8:
	case CharsetLatin1, "iso8859-1", "latin1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("catalog: charset no soportado %q", charset)
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catalog: archivo vacío")
		}
		return nil, fmt.Errorf("catalog: leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("catalog: falta la columna %q", c)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	now := time.Now().UTC()
	seen := make(map[string]int)
	var products []entity.Product
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: línea %d: %w", line, err)
		}
		name := field(rec, "name")
		if name == "" {
			return nil, fmt.Errorf("catalog: línea %d: name vacío", line)
		}
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("catalog: línea %d: %q repetido (línea %d)", line, name, prev)
		}
		seen[name] = line

		category, ok := entity.ParseCategory(strings.ToLower(field(rec, "category")))
		if !ok {
			return nil, fmt.Errorf("catalog: línea %d: categoría %q desconocida", line, field(rec, "category"))
		}
		unit := entity.Unit(strings.ToLower(field(rec, "unit")))
		if !unit.Valid() {
			return nil, fmt.Errorf("catalog: línea %d: unidad %q desconocida", line, field(rec, "unit"))
		}
		id := field(rec, "id")
		if id == "" {
			id = uuid.NewString()
		}
		products = append(products, entity.Product{ID: id, Name: name, Category: category, Unit: unit, CreatedAt: now})
	}
	return products, nil
}
