// Package grid reconstructs dense tables from span-encoded table markup.
//
// Vote result tables in the minutes declare cells with column and row spans.
// Reconstruct flattens such a table into a model.Grid where every position
// holds either explicit text, a value carried down from a row span, or nil.
// Records then zips the data rows against the header row.
//
// Two markup adapters produce the Table input: FromXML for the minutes export
// (TABLE/COLGROUP/TBODY/TR/TD with COLNAME, COLSPAN and ROWSPAN attributes)
// and ParseHTML for ordinary HTML tables.
package grid
