package model

// Grid is a dense table of nullable cells, one slice per row.
// A nil cell means the markup declared nothing for that position.
// A Grid is never modified after it has been built.
type Grid [][]*string

// Row maps a column header name to the cell text of one data row.
type Row map[string]*string

// Get returns the text of the named column, or "" when the column is
// missing or its cell is nil.
func (r Row) Get(column string) string {
	if v, ok := r[column]; ok && v != nil {
		return *v
	}
	return ""
}

// Lookup returns the cell of the named column and whether it holds text.
func (r Row) Lookup(column string) (string, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Ptr returns a pointer to s. It is a small helper for building nullable fields.
func Ptr(s string) *string {
	return &s
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
