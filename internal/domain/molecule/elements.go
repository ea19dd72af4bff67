package molecule

// Element facts consulted by the nomenclature engine.  The seniority rank
// table is a fixed pragmatic table the expected name outputs were tuned
// against; do not re-derive it from periodic-table properties.

// heteroatomRank is the fixed element seniority rank used when scoring ring
// heteroatoms.  Lower rank means more senior.
var heteroatomRank = map[string]int{
	"O":  1,
	"S":  2,
	"Se": 3,
	"Te": 4,
	"N":  5,
	"P":  6,
	"As": 7,
	"Sb": 8,
	"B":  9,
	"Si": 10,
	"Ge": 11,
}

// unknownElementRank is returned for elements outside the fixed table.
const unknownElementRank = 999

// HeteroatomRank returns the fixed seniority rank of the element, or
// unknownElementRank when the element is not in the table.
func HeteroatomRank(symbol string) int {
	if r, ok := heteroatomRank[symbol]; ok {
		return r
	}
	return unknownElementRank
}

// HeteroatomSeniorityScore is the per-atom contribution used when ranking
// ring systems: 1000 minus the fixed element rank, so more senior elements
// contribute larger scores.
func HeteroatomSeniorityScore(symbol string) int {
	return 1000 - HeteroatomRank(symbol)
}

// hydrideElements lists the elements whose mononuclear hydrides can serve as
// a heteroatom parent, with the hydride's canonical valence and name.
var hydrideElements = map[string]struct {
	Valence int
	Name    string
}{
	"B":  {3, "borane"},
	"Si": {4, "silane"},
	"Ge": {4, "germane"},
	"Sn": {4, "stannane"},
	"Pb": {4, "plumbane"},
	"P":  {3, "phosphane"},
	"As": {3, "arsane"},
	"Sb": {3, "stibane"},
	"Bi": {3, "bismuthane"},
}

// IsHydrideElement reports whether the element can form a heteroatom parent
// hydride.
func IsHydrideElement(symbol string) bool {
	_, ok := hydrideElements[symbol]
	return ok
}

// HydrideName returns the parent hydride name for the element, or "" when
// the element has no registered hydride.
func HydrideName(symbol string) string {
	return hydrideElements[symbol].Name
}

// HydrideValence returns the canonical valence of the element's hydride, or
// 0 when the element has no registered hydride.
func HydrideValence(symbol string) int {
	return hydrideElements[symbol].Valence
}

// standardValence maps common organic elements to their neutral standard
// valence, used by the atomic-analysis phase for hybridization estimates.
var standardValence = map[string]int{
	"H":  1,
	"C":  4,
	"N":  3,
	"O":  2,
	"S":  2,
	"P":  3,
	"F":  1,
	"Cl": 1,
	"Br": 1,
	"I":  1,
	"B":  3,
	"Si": 4,
}

// StandardValence returns the neutral standard valence of the element, or 0
// when unknown.
func StandardValence(symbol string) int {
	return standardValence[symbol]
}

// halogens is the set of halogen element symbols.
var halogens = map[string]bool{"F": true, "Cl": true, "Br": true, "I": true}

// IsHalogen reports whether the element is a halogen.
func IsHalogen(symbol string) bool { return halogens[symbol] }
