package grid

import "sync"

// CellKind tells the renderer which widget a cell is.
type CellKind int

const (
	CellText CellKind = iota
	CellSelect
	CellAction
	CellStatus
)

// Cell is the render descriptor for one table cell.
type Cell struct {
	Kind      CellKind
	Column    int
	Field     string
	Text      string
	Hover     string
	Glyph     string
	Selected  bool
	Online    bool
	Clickable bool
}

// CellContext is everything a cell builder may read.
type CellContext struct {
	Column   Column
	Index    int
	Row      Row
	Selected map[string]bool
	Icons    IconSet
}

// CellType is one entry of the dispatch table.
type CellType struct {
	// Field resolves the row field a column of this type reads.
	Field func(Column) string
	// Build renders the cell given the resolved field.
	Build func(ctx CellContext, field string) Cell
}

// Registry maps data types to cell types. Unknown types use the default.
type Registry struct {
	mu    sync.RWMutex
	types map[DataType]CellType
}

// NewRegistry returns a registry holding the built-in types.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[DataType]CellType, 7)}
	r.types[TypeDefault] = CellType{Field: propertyField, Build: textCell}
	r.types[TypeSelect] = CellType{Field: propertyField, Build: selectCell}
	r.types[TypeAction] = CellType{Field: func(Column) string { return "" }, Build: actionCell}
	r.types[TypeTime] = CellType{Field: suffixField("Timestamp"), Build: textCell}
	r.types[TypeStatus] = CellType{Field: suffixField("Timestamp"), Build: statusCell}
	r.types[TypePercent] = CellType{Field: suffixField("Percent"), Build: textCell}
	r.types[TypeDuration] = CellType{Field: suffixField("Duration"), Build: textCell}
	return r
}

var defaultRegistry = NewRegistry()

// ResolveField returns the row field read for col using the built-in types.
func ResolveField(col Column) string {
	return defaultRegistry.Field(col)
}

// Register adds or replaces a cell type. Nil funcs fall back to the default
// type's behavior.
func (r *Registry) Register(t DataType, ct CellType) {
	if ct.Field == nil {
		ct.Field = propertyField
	}
	if ct.Build == nil {
		ct.Build = textCell
	}
	r.mu.Lock()
	r.types[t] = ct
	r.mu.Unlock()
}

// Lookup returns the cell type for t, or the default type when t is unknown.
func (r *Registry) Lookup(t DataType) CellType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ct, ok := r.types[t]; ok {
		return ct
	}
	return r.types[TypeDefault]
}

// Field resolves the row field read for col.
func (r *Registry) Field(col Column) string {
	return r.Lookup(col.DataType).Field(col)
}

// Cell builds the descriptor for one cell.
func (r *Registry) Cell(ctx CellContext) Cell {
	ct := r.Lookup(ctx.Column.DataType)
	cell := ct.Build(ctx, ct.Field(ctx.Column))
	cell.Column = ctx.Index
	return cell
}

func propertyField(col Column) string { return col.DataProperty }

func suffixField(suffix string) func(Column) string {
	return func(col Column) string { return col.DataProperty + suffix }
}

func hoverText(col Column, row Row, display string) string {
	if col.HoverFunc != nil {
		return col.HoverFunc(row)
	}
	if col.HoverProperty != "" {
		return row.Text(col.HoverProperty)
	}
	return display
}

func textCell(ctx CellContext, field string) Cell {
	text := ctx.Row.Text(field)
	return Cell{
		Kind:  CellText,
		Field: field,
		Text:  text,
		Hover: hoverText(ctx.Column, ctx.Row, text),
	}
}

func selectCell(ctx CellContext, field string) Cell {
	selected := ctx.Selected[ctx.Row.Key(field)]
	cell := Cell{
		Kind:      CellSelect,
		Field:     field,
		Selected:  selected,
		Clickable: true,
		Glyph:     ctx.Icons.SelectOff,
		Hover:     "Select",
	}
	if selected {
		cell.Glyph = ctx.Icons.SelectOn
		cell.Hover = "Deselect"
	}
	return cell
}

func actionCell(ctx CellContext, field string) Cell {
	return Cell{
		Kind:      CellAction,
		Field:     field,
		Text:      ctx.Column.Markup,
		Hover:     hoverText(ctx.Column, ctx.Row, ctx.Column.Markup),
		Clickable: true,
	}
}

func statusCell(ctx CellContext, field string) Cell {
	cell := textCell(ctx, field)
	cell.Kind = CellStatus
	cell.Online = ctx.Row.Online()
	cell.Glyph = ctx.Icons.StatusOff
	if cell.Online {
		cell.Glyph = ctx.Icons.StatusOn
	}
	return cell
}
