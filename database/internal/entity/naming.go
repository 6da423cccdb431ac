package entity

import "unicode"

// defaultName derives a placeholder name from a Go field name by lowering its
// leading upper-case run. The last upper-case rune of a run followed by a
// lower-case rune starts the next word and is kept.
//
//	DummyString -> dummyString
//	DummyID     -> dummyID
//	ID          -> id
//	URLPath     -> urlPath
func defaultName(goName string) string {
	runes := []rune(goName)

	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}

	switch {
	case upper == 0:
		return goName
	case upper == 1 || upper == len(runes):
		// "Name" or "ID"
	default:
		// "URLPath": keep the 'P' that starts "Path"
		upper--
	}

	for i := 0; i < upper; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
