package formula

import "regexp"

// allowedFuncs are function-like keywords a formula may reference without
// them being dataset columns.
var allowedFuncs = map[string]struct{}{
	"min":   {},
	"max":   {},
	"sum":   {},
	"abs":   {},
	"round": {},
}

var identPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

func isAllowedChar(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	}
	switch r {
	case '+', '-', '*', '/', '(', ')', '.', ',', '_', ' ':
		return true
	}
	return false
}

// Validate checks a translated formula against the dataset's column set.
// It rejects, in order: characters outside the arithmetic whitelist, then
// identifier tokens that are neither dataset columns nor allowed function
// names. It does not evaluate anything. A nil return means the formula may
// proceed to parsing.
func Validate(formula string, hasColumn func(string) bool) *Error {
	for _, r := range formula {
		if !isAllowedChar(r) {
			return invalidCharacterError()
		}
	}

	var missing []string
	seen := map[string]struct{}{}
	for _, tok := range identPattern.FindAllString(formula, -1) {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if hasColumn(tok) {
			continue
		}
		if _, ok := allowedFuncs[tok]; ok {
			continue
		}
		missing = append(missing, tok)
	}
	if len(missing) > 0 {
		return unresolvedColumnError(missing)
	}
	return nil
}
