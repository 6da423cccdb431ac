package sqllex

import "strings"

// Segment is a piece of a SQL statement: either literal text or a named parameter.
type Segment struct {
	// Text is the literal SQL, or the parameter name without its ':' prefix
	Text string

	// Param is true when the segment is a `:name` placeholder
	Param bool
}

// SplitNamed splits query into literal text and `:name` placeholders.
//
// Colons inside single-quoted strings, double-quoted identifiers, `--` line
// comments and `/* */` block comments are literal, as are PostgreSQL `::` casts.
//
// Examples:
//
//	SplitNamed("SELECT * FROM t WHERE id=:id")
//	// [{"SELECT * FROM t WHERE id=", false}, {"id", true}]
//
//	SplitNamed("SELECT ':x', a::text FROM t")
//	// [{"SELECT ':x', a::text FROM t", false}]
func SplitNamed(query string) []Segment {
	var (
		segments []Segment
		literal  strings.Builder
	)

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, Segment{Text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(query); {
		c := query[i]

		switch {
		case c == '\'' || c == '"':
			end := skipQuoted(query, i, c)
			literal.WriteString(query[i:end])
			i = end

		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				end = len(query)
			} else {
				end += i + 1
			}
			literal.WriteString(query[i:end])
			i = end

		case c == '/' && i+1 < len(query) && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				end = len(query)
			} else {
				end += i + 4
			}
			literal.WriteString(query[i:end])
			i = end

		case c == ':' && i+1 < len(query) && query[i+1] == ':':
			literal.WriteString("::")
			i += 2

		case c == ':' && i+1 < len(query) && isIdentStart(query[i+1]):
			end := i + 2
			for end < len(query) && isIdentPart(query[end]) {
				end++
			}
			flush()
			segments = append(segments, Segment{Text: query[i+1 : end], Param: true})
			i = end

		default:
			literal.WriteByte(c)
			i++
		}
	}

	flush()
	return segments
}

// NamedParameters returns the parameter names of query in order of appearance,
// repeats included.
func NamedParameters(query string) []string {
	var names []string
	for _, seg := range SplitNamed(query) {
		if seg.Param {
			names = append(names, seg.Text)
		}
	}
	return names
}

// skipQuoted returns the index just past the quoted run starting at start.
// A doubled quote character inside the run is an escaped quote.
func skipQuoted(s string, start int, quote byte) int {
	i := start + 1
	for i < len(s) {
		if s[i] == quote {
			if i+1 < len(s) && s[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return len(s)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
