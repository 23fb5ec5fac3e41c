// Package tabledef loads table definitions from YAML.
package tabledef

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/five82/gridview/internal/grid"
)

type document struct {
	Columns         []grid.Column         `yaml:"columns"`
	AdvancedFilters []grid.AdvancedFilter `yaml:"advancedFilters"`
	RowActivation   *grid.RowActivation   `yaml:"rowActivation"`
	Pagination      struct {
		PageSize int `yaml:"pageSize"`
	} `yaml:"pagination"`
	Sort struct {
		Column string `yaml:"column"`
	} `yaml:"sort"`
}

// Load reads and validates the definition at path.
func Load(path string) (grid.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return grid.Definition{}, fmt.Errorf("read table definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return grid.Definition{}, fmt.Errorf("table definition %s: %w", path, err)
	}
	return def, nil
}

// Parse decodes and validates a YAML definition. Unknown keys are errors.
func Parse(data []byte) (grid.Definition, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return grid.Definition{}, fmt.Errorf("parse: %w", err)
	}

	def := grid.Definition{
		Columns:         doc.Columns,
		AdvancedFilters: doc.AdvancedFilters,
		RowActivation:   doc.RowActivation,
		PageSize:        doc.Pagination.PageSize,
		SortColumn:      grid.NoSort,
	}
	for i := range def.Columns {
		col := &def.Columns[i]
		col.DataProperty = strings.TrimSpace(col.DataProperty)
		col.DataType = grid.DataType(strings.ToLower(strings.TrimSpace(string(col.DataType))))
		if col.DataType == "" {
			col.DataType = grid.TypeDefault
		}
		if col.HeaderLabel == "" && col.DataType != grid.TypeSelect && col.DataType != grid.TypeAction {
			col.HeaderLabel = col.DataProperty
		}
	}
	if name := strings.TrimSpace(doc.Sort.Column); name != "" {
		for i, col := range def.Columns {
			if col.DataProperty == name {
				def.SortColumn = i
				break
			}
		}
		if def.SortColumn == grid.NoSort {
			return grid.Definition{}, fmt.Errorf("sort column %q is not defined", name)
		}
	}
	if err := Validate(def); err != nil {
		return grid.Definition{}, err
	}
	return def, nil
}

// Validate checks a definition for mistakes that would otherwise show up as
// a silently broken table.
func Validate(def grid.Definition) error {
	var errs []error
	if len(def.Columns) == 0 {
		errs = append(errs, errors.New("at least one column is required"))
	}
	for i, col := range def.Columns {
		if col.DataType != grid.TypeAction && col.DataProperty == "" {
			errs = append(errs, fmt.Errorf("columns[%d]: dataProperty is required", i))
		}
		switch col.SortDirection {
		case "", grid.SortAscending, grid.SortDescending:
		default:
			errs = append(errs, fmt.Errorf("columns[%d]: sortDirection %q must be ascending or descending", i, col.SortDirection))
		}
		if col.Width < 0 {
			errs = append(errs, fmt.Errorf("columns[%d]: width must not be negative", i))
		}
		if col.DataType == grid.TypeAction && col.Action == "" {
			errs = append(errs, fmt.Errorf("columns[%d]: action columns need an action name", i))
		}
	}
	seen := make(map[string]bool, len(def.AdvancedFilters))
	for i, f := range def.AdvancedFilters {
		switch {
		case f.ID == "":
			errs = append(errs, fmt.Errorf("advancedFilters[%d]: id is required", i))
		case seen[f.ID]:
			errs = append(errs, fmt.Errorf("advancedFilters[%d]: duplicate id %q", i, f.ID))
		}
		seen[f.ID] = true
	}
	if def.PageSize < 0 {
		errs = append(errs, errors.New("pagination.pageSize must not be negative"))
	}
	if def.SortColumn != grid.NoSort {
		if def.SortColumn < 0 || def.SortColumn >= len(def.Columns) {
			errs = append(errs, fmt.Errorf("sort column index %d out of range", def.SortColumn))
		} else if def.Columns[def.SortColumn].SortDirection == "" {
			errs = append(errs, fmt.Errorf("sort column %q has no sortDirection", def.Columns[def.SortColumn].DataProperty))
		}
	}
	if def.RowActivation != nil && strings.TrimSpace(def.RowActivation.Handler) == "" {
		errs = append(errs, errors.New("rowActivation.handler is required"))
	}
	return errors.Join(errs...)
}
