package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/phlox/storefront/internal/core/domain"
	"github.com/phlox/storefront/internal/core/port"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

var _ port.CatalogProvider = (*Catalog)(nil)

type (
	document struct {
		Products []product `yaml:"products"`
	}

	product struct {
		ID          int      `yaml:"id"`
		Name        string   `yaml:"name"`
		UnitPrice   int64    `yaml:"unit_price"`
		Description string   `yaml:"description"`
		Image       string   `yaml:"image"`
		Category    string   `yaml:"category"`
		Variants    []string `yaml:"variants"`
	}
)

// A Catalog holds the immutable product list, loaded once at startup.
type Catalog struct {
	products []domain.Product
	byID     map[int]domain.Product
}

// New loads the embedded default catalog.
func New() (Catalog, error) {
	const op = "catalog.New"

	c, err := parse(defaultCatalogYAML)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// NewFromFile loads a catalog document from path.
func NewFromFile(path string) (Catalog, error) {
	const op = "catalog.NewFromFile"
	log := slog.With("op", op)

	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := parse(b)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("catalog loaded", "path", path, "nProducts", len(c.products))
	return c, nil
}

func parse(b []byte) (Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return Catalog{}, err
	}

	if len(doc.Products) == 0 {
		return Catalog{}, fmt.Errorf("catalog has no products")
	}

	c := Catalog{byID: make(map[int]domain.Product, len(doc.Products))}
	for _, p := range doc.Products {
		if err := validate(p); err != nil {
			return Catalog{}, err
		}
		if _, exists := c.byID[p.ID]; exists {
			return Catalog{}, fmt.Errorf("duplicate product id %d", p.ID)
		}
		dp := toDomain(p)
		c.products = append(c.products, dp)
		c.byID[p.ID] = dp
	}
	return c, nil
}

func validate(p product) error {
	if p.ID <= 0 {
		return fmt.Errorf("product %q: id must be positive", p.Name)
	}
	if p.Name == "" {
		return fmt.Errorf("product id %d: name is empty", p.ID)
	}
	if p.UnitPrice < 0 {
		return fmt.Errorf("product %q: negative unit price", p.Name)
	}
	if len(p.Variants) == 0 {
		return fmt.Errorf("product %q: no variants", p.Name)
	}
	seen := make(map[string]struct{}, len(p.Variants))
	for _, v := range p.Variants {
		if _, dup := seen[v]; dup {
			return fmt.Errorf("product %q: duplicate variant %q", p.Name, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

func toDomain(p product) domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		UnitPrice:   p.UnitPrice,
		Description: p.Description,
		Image:       p.Image,
		Category:    p.Category,
		Variants:    p.Variants,
	}
}

// Products returns the ordered product list. The slice is a copy,
// the records themselves are shared and must not be mutated.
func (c Catalog) Products() []domain.Product {
	ps := make([]domain.Product, len(c.products))
	copy(ps, c.products)
	return ps
}

func (c Catalog) Product(id int) (domain.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}
