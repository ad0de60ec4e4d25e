package match

import (
	"strings"
	"unicode"
)

// Normalize folds an identifier for fuzzy matching: CamelCase and
// separators are removed and the result is lower-cased, so "bNodeSocket",
// "b_node_socket" and "BNodeSocket" all become "bnodesocket".
func Normalize(s string) string {
	return strings.Join(Tokenize(s), "")
}

// NormalizeStripped is Normalize with the DNA naming affixes that renames
// tend to add or drop removed: a leading "b" token ("bScreen"), a "tot"
// counter prefix, a trailing "num" token and a plural "s". Both "totvert"
// and "verts_num" become "vert".
func NormalizeStripped(s string) string {
	tokens := Tokenize(s)
	if len(tokens) == 0 {
		return ""
	}

	if len(tokens) > 1 && tokens[0] == "b" {
		tokens = tokens[1:]
	} else if len(tokens[0]) > len("tot") && strings.HasPrefix(tokens[0], "tot") {
		tokens[0] = strings.TrimPrefix(tokens[0], "tot")
	}

	if len(tokens) > 1 && tokens[len(tokens)-1] == "num" {
		tokens = tokens[:len(tokens)-1]
	}

	joined := strings.Join(tokens, "")
	if len(joined) > 3 && strings.HasSuffix(joined, "s") {
		joined = strings.TrimSuffix(joined, "s")
	}

	return joined
}

// Tokenize splits an identifier into lower-case tokens at separators and
// case transitions:
//   - "bNodeSocket" -> ["b", "node", "socket"]
//   - "verts_num" -> ["verts", "num"]
//   - "UVMap" -> ["uv", "map"]
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// startsToken reports a lower-to-upper transition ("nodeSocket") or the
// end of an acronym ("UVMap" splits before 'M').
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
