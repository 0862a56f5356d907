package frontend

// reservedItem pairs a reserved word with its token kind, grouped by length
// (adapted from the teacher's frontend/lang.go length-indexed keyword table).
type reservedItem struct {
	val string
	typ Kind
}

// rw holds DLT's reserved words indexed by length: rw[n-1] are the keywords
// of length n. Indexing by length keeps lookup to a short linear scan of a
// small bucket rather than a full hash over every keyword.
var rw = [...][]reservedItem{
	// 1
	{},
	// 2
	{
		{"fn", KW_FN},
		{"if", KW_IF},
	},
	// 3
	{
		{"let", KW_LET},
		{"int", KW_TYPE},
	},
	// 4
	{
		{"elif", KW_ELIF},
		{"else", KW_ELSE},
		{"exit", KW_EXIT},
		{"char", KW_TYPE},
		{"long", KW_TYPE},
		{"void", KW_TYPE},
		{"int8", KW_TYPE},
	},
	// 5
	{
		{"while", KW_WHILE},
		{"const", KW_CONST},
		{"short", KW_TYPE},
		{"float", KW_TYPE},
		{"int16", KW_TYPE},
		{"int32", KW_TYPE},
		{"int64", KW_TYPE},
	},
	// 6
	{
		{"return", KW_RETURN},
		{"double", KW_TYPE},
	},
	// 7
	{
		{"float32", KW_TYPE},
		{"float64", KW_TYPE},
	},
	// 8
	{
		{"external", KW_EXTERNAL},
	},
}

// isKeyword returns true and the keyword's token kind if s is one of DLT's
// reserved words; otherwise (false, IDENTIFIER).
func isKeyword(s string) (bool, Kind) {
	if len(s) == 0 || len(s) > len(rw) {
		return false, IDENTIFIER
	}
	for _, e := range rw[len(s)-1] {
		if e.val == s {
			return true, e.typ
		}
	}
	return false, IDENTIFIER
}
