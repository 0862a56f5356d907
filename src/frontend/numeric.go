package frontend

import "strconv"

// parseInt, parseFloat32 and parseFloat64 convert literal text already
// validated by the lexer's lexNumber state, which only emits digit runs it
// has accepted itself, so the text is always well formed. The one error
// strconv can still report is a value out of range; it is ignored, and the
// nearest representable value that strconv returns is used.

func parseInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloat32(s string) float32 {
	v, _ := strconv.ParseFloat(s, 32)
	return float32(v)
}

func parseFloat64(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
