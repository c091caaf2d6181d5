package match

import "github.com/inkc/inkc/pkg/term"

// InferColumnAdt is infer_def_types: given a set of rows and a column
// index known to hold at least one PatCtr pattern, it resolves which ADT
// that column ranges over by looking up the first concrete constructor
// name in the book's constructor table. Returns ("", false) if no row has
// a concrete constructor pattern at col.
func InferColumnAdt(book *term.Book, rows []row, col int) (string, bool) {
	for _, r := range rows {
		if pc, ok := r.pats[col].(term.PatCtr); ok {
			if info, ok2 := book.Ctrs[pc.Name]; ok2 {
				return info.Adt, true
			}
		}
	}
	return "", false
}
