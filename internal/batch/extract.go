package batch

import (
	"regexp"
	"strconv"
	"strings"
)

// Query is one statement of a script paired with its display number and name.
type Query struct {
	// Number is the declared header number as written ("3", "12"), or the
	// 1-based ordinal when the statement has no header.
	Number string
	// Name is the normalized header name, or query_<ordinal>.
	Name string
	// SQL is the statement text, trimmed, without the trailing ';'.
	SQL string
	// Ordinal is the 1-based position of the statement in the script.
	Ordinal int
}

// headerPattern matches "Q<digits> · <name>" up to the end of the line or the
// first box-drawing character of a decorated banner.
var headerPattern = regexp.MustCompile(`Q(\d+)\s*·\s*([^\n\x{2500}-\x{257F}]+)`)

var nameStrip = regexp.MustCompile(`[^a-zA-Z0-9 _]`)

type header struct {
	number string
	name   string
}

// Extract splits a script into queries in script order.
//
// Headers and statements are zipped by index. A header that sits after the
// statement it was meant to describe still names whatever statement shares
// its position; surplus headers are ignored.
func Extract(script string) []Query {
	statements := Statements(script)
	if len(statements) == 0 {
		return nil
	}
	headers := scanHeaders(script)

	queries := make([]Query, len(statements))
	for i, sql := range statements {
		q := Query{
			Number:  strconv.Itoa(i + 1),
			Name:    "query_" + strconv.Itoa(i+1),
			SQL:     sql,
			Ordinal: i + 1,
		}
		if i < len(headers) {
			q.Number = headers[i].number
			q.Name = NormalizeName(headers[i].name)
		}
		queries[i] = q
	}
	return queries
}

// Statements removes whole-line "--" comments, splits the rest on ';' and
// returns the trimmed pieces that still contain executable text.
func Statements(text string) []string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	var out []string
	for _, piece := range strings.Split(strings.Join(kept, "\n"), ";") {
		piece = strings.TrimSpace(piece)
		if piece == "" || !hasExecutableText(piece) {
			continue
		}
		out = append(out, piece)
	}
	return out
}

// hasExecutableText reports whether a piece has a line that is not a comment.
// A trailing "; -- note" leaves such comment-only pieces behind.
func hasExecutableText(piece string) bool {
	for _, line := range strings.Split(piece, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return true
		}
	}
	return false
}

func scanHeaders(text string) []header {
	matches := headerPattern.FindAllStringSubmatch(text, -1)
	headers := make([]header, 0, len(matches))
	for _, m := range matches {
		headers = append(headers, header{number: m[1], name: m[2]})
	}
	return headers
}

// NormalizeName keeps ASCII letters, digits, spaces and underscores, trims,
// turns spaces into underscores and lowercases. It is idempotent.
func NormalizeName(name string) string {
	s := nameStrip.ReplaceAllString(name, "")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ToLower(s)
}
