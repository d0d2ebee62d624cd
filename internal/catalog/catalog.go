// Package catalog loads the fixed product list and seeds it into a product repository.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"foodexpress/internal/models"
	"foodexpress/internal/repositories"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type document struct {
	Products []entry `yaml:"products"`
}

type entry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
	Glyph       string `yaml:"glyph"`
}

// Load reads the catalog at path, or the built-in catalog when path is empty.
func Load(path string) ([]models.Product, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
	}
	return Parse(data)
}

const priceScale = 2

// Parse decodes a catalog document. IDs must be unique and every product valid.
func Parse(data []byte) ([]models.Product, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Products) == 0 {
		return nil, fmt.Errorf("catalog has no products")
	}

	seen := make(map[string]bool, len(doc.Products))
	products := make([]models.Product, 0, len(doc.Products))
	for i, e := range doc.Products {
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, fmt.Errorf("product %d (%s): invalid price %q: %w", i, e.ID, e.Price, err)
		}
		// prices are stored as decimal(10,2)
		if !price.Equal(price.Truncate(priceScale)) {
			return nil, fmt.Errorf("product %d (%s): price %q has more than %d decimal places", i, e.ID, e.Price, priceScale)
		}
		p := models.Product{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Price:       price,
			ImageGlyph:  e.Glyph,
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("product %d (%s): %w", i, e.ID, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("product %d: duplicate id %s", i, p.ID)
		}
		seen[p.ID] = true
		products = append(products, p)
	}
	return products, nil
}

// Seed writes products into repo.
func Seed(repo repositories.ProductRepository, products []models.Product) error {
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			return fmt.Errorf("seed product %s: %w", products[i].ID, err)
		}
	}
	return nil
}
