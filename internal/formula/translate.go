package formula

import (
	"sort"
	"strings"
)

// LabelBinding pairs a user-facing short label with the technical column
// name it stands for.
type LabelBinding struct {
	Label  string
	Column string
}

// Translate rewrites a formula written in short labels into one written in
// technical column names.
//
// Bindings are applied longest-label-first so that a label which is a
// substring of a longer one (e.g. "OI" inside "% OI MM Long") cannot fire
// first and corrupt the longer label's text. Matching is case-insensitive
// and whole-word at the label's edges only: the characters immediately
// before and after an occurrence must not be identifier characters, but the
// label itself may contain spaces, slashes or percent signs.
//
// Translation never fails. Text that matches no label is passed through for
// the validator to reject.
func Translate(formula string, bindings []LabelBinding) string {
	sorted := make([]LabelBinding, len(bindings))
	copy(sorted, bindings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Label) > len(sorted[j].Label)
	})

	out := formula
	for _, b := range sorted {
		out = replaceWholeWord(out, b.Label, b.Column)
	}
	return out
}

func isIdentChar(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

// lowerASCII lowercases ASCII letters only, leaving every other byte
// untouched. Unlike strings.ToLower it never changes byte length, so
// indexes into the result line up with the input. Labels are ASCII, so
// this is all the case folding that matching needs.
func lowerASCII(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			if b == nil {
				b = []byte(s)
			}
			b[i] = c + ('a' - 'A')
		}
	}
	if b == nil {
		return s
	}
	return string(b)
}

// replaceWholeWord substitutes every case-insensitive occurrence of label in
// s whose edges do not touch identifier characters.
func replaceWholeWord(s, label, replacement string) string {
	if label == "" {
		return s
	}
	lowerS := lowerASCII(s)
	lowerLabel := lowerASCII(label)

	var sb strings.Builder
	i := 0
	for i < len(s) {
		j := strings.Index(lowerS[i:], lowerLabel)
		if j < 0 {
			sb.WriteString(s[i:])
			break
		}
		j += i
		end := j + len(label)

		boundedLeft := j == 0 || !isIdentChar(s[j-1])
		boundedRight := end == len(s) || !isIdentChar(s[end])
		if boundedLeft && boundedRight {
			sb.WriteString(s[i:j])
			sb.WriteString(replacement)
			i = end
			continue
		}
		// Not a whole-word hit: emit one byte and keep scanning.
		sb.WriteString(s[i : j+1])
		i = j + 1
	}
	return sb.String()
}
