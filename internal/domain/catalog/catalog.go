// Package catalog turns the configured item catalog into the initial item set.
package catalog

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/okian/flagrank/internal/domain/model"
)

// CodePlaceholder is replaced by the lower-cased code in icon templates.
const CodePlaceholder = "{code}"

// Record is one catalog entry keyed by its code.
type Record struct {
	Name     string   `yaml:"name" json:"name" validate:"required"`
	Parent   string   `yaml:"parent,omitempty" json:"parent,omitempty"`
	Flagsets []string `yaml:"flagsets,omitempty" json:"flagsets,omitempty" validate:"dive,required"`
	Disabled bool     `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// Catalog maps codes to records.
type Catalog map[string]Record

// Options controls how records become items.
type Options struct {
	// Category keeps only records tagged with it. Empty keeps everything.
	Category string
	// IconTemplate builds the icon URL; CodePlaceholder is substituted.
	IconTemplate string
	// NoteParent appends " (Parent Name)" to names of records with a parent.
	NoteParent bool
	// InitialRating is the starting rating. Zero means model.DefaultRating.
	InitialRating float64
}

var validate = validator.New()

// LoadFile reads a catalog from a YAML or JSON file.
func LoadFile(ctx context.Context, path string) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrConfig, path, err)
	}

	return Parse(data)
}

// Parse decodes a catalog document. JSON is accepted as YAML flow syntax.
func Parse(data []byte) (Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrConfig, err)
	}
	if cat == nil {
		cat = Catalog{}
	}
	return cat, nil
}

// Build validates the catalog and produces the initial items, sorted by code.
// A record whose parent is absent from the catalog is a configuration error
// even when parent names are not shown.
func Build(cat Catalog, opts Options) ([]model.Item, error) {
	rating := opts.InitialRating
	if rating == 0 {
		rating = model.DefaultRating
	}

	codes := make([]string, 0, len(cat))
	for code := range cat {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	items := make([]model.Item, 0, len(codes))
	for _, code := range codes {
		rec := cat[code]
		if strings.TrimSpace(code) == "" {
			return nil, fmt.Errorf("%w: empty code", ErrConfig)
		}
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("%w: record %s: %w", ErrConfig, code, err)
		}

		var parent Record
		if rec.Parent != "" {
			p, ok := cat[rec.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: record %s: parent %q not found", ErrConfig, code, rec.Parent)
			}
			parent = p
		}

		if rec.Disabled {
			continue
		}
		if opts.Category != "" && !slices.Contains(rec.Flagsets, opts.Category) {
			continue
		}

		name := rec.Name
		if opts.NoteParent && rec.Parent != "" {
			name = fmt.Sprintf("%s (%s)", name, parent.Name)
		}

		items = append(items, model.Item{
			Code:   code,
			Name:   name,
			URL:    IconURL(opts.IconTemplate, code),
			Rating: rating,
		})
	}

	return items, nil
}

// IconURL fills the template with the lower-cased code.
func IconURL(template, code string) string {
	return strings.ReplaceAll(template, CodePlaceholder, strings.ToLower(code))
}
