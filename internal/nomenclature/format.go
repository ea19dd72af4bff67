package nomenclature

import (
	"regexp"
	"strings"
)

// Textual normalization of assembled names.  NormalizeName is idempotent:
// applying it to its own output changes nothing, which lets the format rule
// run safely on partially normalized input.

var (
	letterDigitRe  = regexp.MustCompile(`([a-zA-Z])([0-9])`)
	digitLetterRe  = regexp.MustCompile(`([0-9])([A-GI-Za-z])`)
	doubleHyphenRe = regexp.MustCompile(`-{2,}`)
	hyphenCommaRe  = regexp.MustCompile(`-+,`)
	hydroxyOlRe    = regexp.MustCompile(`([0-9]+)-hydroxy-?`)
	olLocantRe     = regexp.MustCompile(`-([0-9]+(?:,[0-9]+)*)-(?:di|tri|tetra)?ol`)
)

// NormalizeName applies the deterministic cleanup pass: hyphens at
// digit/letter boundaries (indicated hydrogen excepted), collapsed hyphen
// runs, repaired hyphen-comma sequences, lower-casing outside letter
// locants, and removal of a hydroxy prefix already expressed by an "-ol"
// suffix at the same locant.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	name = letterDigitRe.ReplaceAllString(name, "$1-$2")
	name = digitLetterRe.ReplaceAllString(name, "$1-$2")
	name = doubleHyphenRe.ReplaceAllString(name, "-")
	name = hyphenCommaRe.ReplaceAllString(name, ",")
	name = lowerExceptLocants(name)
	name = dropRedundantHydroxy(name)
	return strings.Trim(name, "-")
}

// lowerExceptLocants lower-cases the name while preserving letter locants
// ("N", "S" before a hyphen or comma) and indicated hydrogen ("1H").
func lowerExceptLocants(name string) string {
	out := []rune(strings.ToLower(name))
	in := []rune(name)
	for i, r := range in {
		if r != 'N' && r != 'S' && r != 'H' {
			continue
		}
		prevOK := i == 0 || in[i-1] == '-' || in[i-1] == ',' || in[i-1] == '(' || in[i-1] == '['
		nextOK := i+1 < len(in) && (in[i+1] == '-' || in[i+1] == ',')
		if (r == 'N' || r == 'S') && prevOK && nextOK {
			out[i] = r
		}
		if r == 'H' && i > 0 && in[i-1] >= '0' && in[i-1] <= '9' {
			out[i] = r
		}
	}
	return string(out)
}

// dropRedundantHydroxy removes an "N-hydroxy" prefix fragment whose locant
// is already claimed by an "-ol" suffix.
func dropRedundantHydroxy(name string) string {
	ol := olLocantRe.FindStringSubmatch(name)
	if ol == nil {
		return name
	}
	suffixLocants := make(map[string]bool)
	for _, loc := range strings.Split(ol[1], ",") {
		suffixLocants[loc] = true
	}
	return hydroxyOlRe.ReplaceAllStringFunc(name, func(match string) string {
		loc := hydroxyOlRe.FindStringSubmatch(match)[1]
		if suffixLocants[loc] {
			return ""
		}
		return match
	})
}

// ValidateName checks the assembled name for structural sanity: non-empty,
// no dangling hyphens, balanced brackets.
func ValidateName(name string) bool {
	if name == "" {
		return false
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return false
	}
	if strings.Contains(name, "--") {
		return false
	}
	depth := 0
	for _, r := range name {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
