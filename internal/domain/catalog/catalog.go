// Package catalog provides the fixed product catalog.
// Product names are enum-like keys, not references to a mutable entity:
// the set is loaded once at startup and never changes at runtime.
package catalog

import (
	"strings"

	"greenbook/internal/core/apperror"
)

// DefaultProducts is the stock assortment of the wholesale stall.
var DefaultProducts = []string{
	"water spinach",
	"water cabbage",
	"red radish",
	"leaf lettuce",
	"choy sum",
	"tatsoi",
	"daikon",
	"quick cabbage",
	"baby bok choy",
	"napa cabbage",
}

// Catalog is the immutable set of valid product names.
type Catalog struct {
	names []string
	index map[string]struct{}
}

// New creates a catalog from the given names. Empty entries are skipped,
// surrounding whitespace is trimmed, duplicates collapse to one.
func New(names []string) *Catalog {
	c := &Catalog{
		index: make(map[string]struct{}, len(names)),
	}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := c.index[n]; ok {
			continue
		}
		c.index[n] = struct{}{}
		c.names = append(c.names, n)
	}
	return c
}

// Default returns the catalog with the standard assortment.
func Default() *Catalog {
	return New(DefaultProducts)
}

// FromCSV builds a catalog from a comma-separated list,
// falling back to the default assortment when the list is empty.
func FromCSV(csv string) *Catalog {
	if strings.TrimSpace(csv) == "" {
		return Default()
	}
	return New(strings.Split(csv, ","))
}

// Contains reports whether name is a valid product.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Require returns a NotFound error when name is not in the catalog.
func (c *Catalog) Require(name string) error {
	if !c.Contains(name) {
		return apperror.NewNotFound("product", name)
	}
	return nil
}

// Names returns the product names in configuration order.
// The returned slice is a copy.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.names)
}
