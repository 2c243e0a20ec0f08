/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Category is one deck of words players can choose from.
type Category struct {
	ID    int      `yaml:"id" json:"id"`
	Name  string   `yaml:"name" json:"name"`
	Emoji string   `yaml:"emoji,omitempty" json:"emoji,omitempty"`
	Words []string `yaml:"words" json:"words"`
}

// Catalog is the read-only list of categories loaded at startup.
type Catalog struct {
	categories []Category
	byID       map[int]int
}

type catalogFile struct {
	Categories []Category `yaml:"categories"`
}

// DefaultCatalog returns the catalog bundled with the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalog reads a catalog from path, or the bundled one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return ParseCatalog(f)
}

// ParseCatalog decodes a YAML catalog and rejects categories that could never
// start a round.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("%w: catalog has no categories", ErrInvalidCategory)
	}

	c := &Catalog{
		categories: make([]Category, 0, len(file.Categories)),
		byID:       make(map[int]int, len(file.Categories)),
	}

	for _, cat := range file.Categories {
		if _, exists := c.byID[cat.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidCategory, cat.ID)
		}

		words := make([]string, 0, len(cat.Words))
		for _, w := range cat.Words {
			if w = strings.TrimSpace(w); w != "" {
				words = append(words, w)
			}
		}
		if len(words) == 0 {
			return nil, fmt.Errorf("%w: category %d (%s) has no words", ErrInvalidCategory, cat.ID, cat.Name)
		}
		cat.Words = words

		c.byID[cat.ID] = len(c.categories)
		c.categories = append(c.categories, cat)
	}

	return c, nil
}

// Categories returns a copy of every category, in file order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat.clone()
	}
	return out
}

// Lookup finds a category by id.
func (c *Catalog) Lookup(id int) (Category, error) {
	i, ok := c.byID[id]
	if !ok {
		return Category{}, fmt.Errorf("%w: unknown id %d", ErrInvalidCategory, id)
	}
	return c.categories[i].clone(), nil
}

func (c Category) clone() Category {
	c.Words = append([]string(nil), c.Words...)
	return c
}
