package domain

import "slices"

type Product struct {
	ID          int
	Name        string
	UnitPrice   int64
	Description string
	Image       string
	Category    string
	Variants    []string
}

// HasVariant reports whether label is one of the product's
// selectable variants.
func (p Product) HasVariant(label string) bool {
	return slices.Contains(p.Variants, label)
}

type CustomerForm struct {
	Name    string
	Phone   string
	Address string
	Notes   string
}

// Complete reports whether all required shipping fields are filled.
// Notes are optional.
func (f CustomerForm) Complete() bool {
	return f.Name != "" && f.Phone != "" && f.Address != ""
}
