package models

// HXLColumn pairs a display header with its HXL hashtag.
// Attributes carries optional hashtag modifiers beyond those already baked
// into Tag.
type HXLColumn struct {
	Header     string   `json:"header"`
	Tag        string   `json:"hxlTag"`
	Attributes []string `json:"attributes,omitempty"`
}

// HXLDataset is an ordered set of HXL columns plus row data keyed by column
// header. Values are scalars (string, number) coerced to strings on CSV
// output; nil renders as an empty field.
type HXLDataset struct {
	Columns []HXLColumn      `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}
