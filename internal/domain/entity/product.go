package entity

import "time"

// Category agrupa productos según los movimientos que admiten.
type Category string

// Categorías del catálogo.
const (
	CategoryFinished Category = "finished" // producto terminado: producción / despacho
	CategoryRaw      Category = "raw"      // materia prima: recibido / usado
	CategoryBag      Category = "bag"      // sacos: compra / usado, cantidades enteras
)

// Categories devuelve las categorías en el orden de presentación.
func Categories() []Category {
	return []Category{CategoryFinished, CategoryRaw, CategoryBag}
}

// Valid indica si c es una categoría conocida.
func (c Category) Valid() bool {
	switch c {
	case CategoryFinished, CategoryRaw, CategoryBag:
		return true
	}
	return false
}

// ParseCategory convierte un string en Category. El string vacío no es válido.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}

// Unit unidad de medida del producto.
type Unit string

const (
	UnitMass  Unit = "mass"  // kg / toneladas, admite decimales
	UnitCount Unit = "count" // piezas
)

// Valid indica si u es una unidad conocida.
func (u Unit) Valid() bool {
	return u == UnitMass || u == UnitCount
}

// Product representa un producto del catálogo. Inmutable en tiempo de ejecución.
type Product struct {
	ID        string
	Name      string // único en el catálogo
	Category  Category
	Unit      Unit
	CreatedAt time.Time
}
