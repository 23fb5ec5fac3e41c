package grid

// IconSet holds the glyph drawn for each named icon slot.
type IconSet struct {
	AdvancedFilterOn  string `toml:"advanced_filter_on"`
	AdvancedFilterOff string `toml:"advanced_filter_off"`
	DeselectAll       string `toml:"deselect_all"`
	PageLeft          string `toml:"page_left"`
	PageRight         string `toml:"page_right"`
	SelectAll         string `toml:"select_all"`
	SelectOn          string `toml:"select_on"`
	SelectOff         string `toml:"select_off"`
	SortAsc           string `toml:"sort_asc"`
	SortDesc          string `toml:"sort_desc"`
	SortInactive      string `toml:"sort_inactive"`
	StatusOn          string `toml:"status_on"`
	StatusOff         string `toml:"status_off"`
}

// IconOverrides is a partial IconSet; empty slots keep the base glyph.
type IconOverrides = IconSet

// DefaultIcons returns the built-in glyphs.
func DefaultIcons() IconSet {
	return IconSet{
		AdvancedFilterOn:  "[x]",
		AdvancedFilterOff: "[ ]",
		DeselectAll:       "[-]",
		PageLeft:          "◀",
		PageRight:         "▶",
		SelectAll:         "[ ]",
		SelectOn:          "[x]",
		SelectOff:         "[ ]",
		SortAsc:           "▲",
		SortDesc:          "▼",
		SortInactive:      "⇅",
		StatusOn:          "●",
		StatusOff:         "○",
	}
}

// Merge returns s with every non-empty slot of o applied on top.
func (s IconSet) Merge(o IconOverrides) IconSet {
	pick := func(base, override string) string {
		if override != "" {
			return override
		}
		return base
	}
	return IconSet{
		AdvancedFilterOn:  pick(s.AdvancedFilterOn, o.AdvancedFilterOn),
		AdvancedFilterOff: pick(s.AdvancedFilterOff, o.AdvancedFilterOff),
		DeselectAll:       pick(s.DeselectAll, o.DeselectAll),
		PageLeft:          pick(s.PageLeft, o.PageLeft),
		PageRight:         pick(s.PageRight, o.PageRight),
		SelectAll:         pick(s.SelectAll, o.SelectAll),
		SelectOn:          pick(s.SelectOn, o.SelectOn),
		SelectOff:         pick(s.SelectOff, o.SelectOff),
		SortAsc:           pick(s.SortAsc, o.SortAsc),
		SortDesc:          pick(s.SortDesc, o.SortDesc),
		SortInactive:      pick(s.SortInactive, o.SortInactive),
		StatusOn:          pick(s.StatusOn, o.StatusOn),
		StatusOff:         pick(s.StatusOff, o.StatusOff),
	}
}

// Sort returns the glyph for a sort indicator.
func (s IconSet) Sort(d SortDirection) string {
	switch d {
	case SortAscending:
		return s.SortAsc
	case SortDescending:
		return s.SortDesc
	default:
		return s.SortInactive
	}
}
