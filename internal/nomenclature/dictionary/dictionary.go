// Package dictionary holds the static nomenclature lookup tables consulted,
// never mutated, by the decision engine: multiplicative prefixes, alkane
// length stems, ring alias names, substituent aliases, and retained names.
// The tables are pragmatic transcriptions the expected name outputs were
// tuned against; treat the values as fixed data, not derivable facts.
package dictionary

import "fmt"

// ─────────────────────────────────────────────────────────────────────────────
// Alkane stems
// ─────────────────────────────────────────────────────────────────────────────

// alkaneStems maps chain length to the IUPAC root stem.
var alkaneStems = map[int]string{
	1:  "meth",
	2:  "eth",
	3:  "prop",
	4:  "but",
	5:  "pent",
	6:  "hex",
	7:  "hept",
	8:  "oct",
	9:  "non",
	10: "dec",
	11: "undec",
	12: "dodec",
	13: "tridec",
	14: "tetradec",
	15: "pentadec",
	16: "hexadec",
	17: "heptadec",
	18: "octadec",
	19: "nonadec",
	20: "icos",
}

// AlkaneStem returns the root stem for a chain of n carbons.  Lengths beyond
// the table fall back to a numeric stem so the engine still produces a
// deterministic, if non-canonical, name.
func AlkaneStem(n int) string {
	if stem, ok := alkaneStems[n]; ok {
		return stem
	}
	return fmt.Sprintf("c%d", n)
}

// AlkylName returns the substituent name for a saturated n-carbon chain.
func AlkylName(n int) string {
	return AlkaneStem(n) + "yl"
}

// AlkaneName returns the saturated hydride name for an n-carbon chain.
func AlkaneName(n int) string {
	return AlkaneStem(n) + "ane"
}

// ─────────────────────────────────────────────────────────────────────────────
// Multiplicative prefixes
// ─────────────────────────────────────────────────────────────────────────────

// multiplicative maps a count to the simple multiplying prefix.
var multiplicative = map[int]string{
	2:  "di",
	3:  "tri",
	4:  "tetra",
	5:  "penta",
	6:  "hexa",
	7:  "hepta",
	8:  "octa",
	9:  "nona",
	10: "deca",
	11: "undeca",
	12: "dodeca",
}

// complexMultiplicative maps a count to the "bis/tris" series used for
// substituents whose names are themselves complex (bracketed).
var complexMultiplicative = map[int]string{
	2: "bis",
	3: "tris",
	4: "tetrakis",
	5: "pentakis",
	6: "hexakis",
}

// MultiplicativePrefix returns the simple multiplying prefix for count, or
// "" for counts below 2.
func MultiplicativePrefix(count int) string {
	if p, ok := multiplicative[count]; ok {
		return p
	}
	if count < 2 {
		return ""
	}
	return fmt.Sprintf("%d-", count)
}

// ComplexMultiplicativePrefix returns the "bis/tris" form for count, falling
// back to the simple series when the table has no entry.
func ComplexMultiplicativePrefix(count int) string {
	if p, ok := complexMultiplicative[count]; ok {
		return p
	}
	return MultiplicativePrefix(count)
}

// ─────────────────────────────────────────────────────────────────────────────
// Ring names
// ─────────────────────────────────────────────────────────────────────────────

// carbocycleNames maps ring size to the saturated carbocycle name.
var carbocycleNames = map[int]string{
	3: "cyclopropane",
	4: "cyclobutane",
	5: "cyclopentane",
	6: "cyclohexane",
	7: "cycloheptane",
	8: "cyclooctane",
}

// CarbocycleName returns the saturated carbocyclic ring name for a ring of
// the given size, or "" when the size is outside the table.
func CarbocycleName(size int) string {
	return carbocycleNames[size]
}

// heteroKey identifies a monoheteroatom ring by its heteroatom element,
// ring size, and aromaticity.
type heteroKey struct {
	Element  string
	Size     int
	Aromatic bool
}

// heterocycleNames covers the common single-heteroatom rings.
var heterocycleNames = map[heteroKey]string{
	{"O", 3, false}: "oxirane",
	{"O", 4, false}: "oxetane",
	{"O", 5, false}: "oxolane",
	{"O", 6, false}: "oxane",
	{"O", 7, false}: "oxepane",
	{"O", 5, true}:  "furan",

	{"N", 3, false}: "aziridine",
	{"N", 4, false}: "azetidine",
	{"N", 5, false}: "pyrrolidine",
	{"N", 6, false}: "piperidine",
	{"N", 7, false}: "azepane",
	{"N", 5, true}:  "pyrrole",
	{"N", 6, true}:  "pyridine",

	{"S", 3, false}: "thiirane",
	{"S", 4, false}: "thietane",
	{"S", 5, false}: "thiolane",
	{"S", 6, false}: "thiane",
	{"S", 5, true}:  "thiophene",
}

// HeterocycleName returns the name of a single-heteroatom ring, or "" when
// no alias is registered.
func HeterocycleName(element string, size int, aromatic bool) string {
	return heterocycleNames[heteroKey{element, size, aromatic}]
}

// AromaticCarbocycleName returns the retained name for an aromatic
// carbocycle ("benzene" for six-membered rings), or "" when none applies.
func AromaticCarbocycleName(size int) string {
	if size == 6 {
		return "benzene"
	}
	return ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Retained acid / acyl stems
// ─────────────────────────────────────────────────────────────────────────────

// retainedAcylStems carries the retained stems for the shortest acids; the
// systematic "alkan" stems apply beyond the table.
var retainedAcylStems = map[int]string{
	1: "form",
	2: "acet",
}

// AcylStem returns the stem used to build acid, ester, and amide names for
// an acid of n carbons (carbonyl carbon included): "form"/"acet" for the
// retained pair, "propan"/"butan"/… beyond.
func AcylStem(n int) string {
	if stem, ok := retainedAcylStems[n]; ok {
		return stem
	}
	return AlkaneStem(n) + "an"
}

// EsterAnionName returns the carboxylate part of a functional-class ester
// name for an acid chain of n carbons with the given ester-group count on
// it ("acetate", "butanedioate").
func EsterAnionName(n, groups int) string {
	if groups >= 2 {
		return AlkaneStem(n) + "ane" + MultiplicativePrefix(groups) + "oate"
	}
	if stem, ok := retainedAcylStems[n]; ok {
		return stem + "ate"
	}
	return AlkaneStem(n) + "anoate"
}

// AmideName returns the amide parent name for an acid chain of n carbons
// ("formamide", "acetamide", "propanamide").
func AmideName(n int) string {
	return AcylStem(n) + "amide"
}

// NitrileName returns the nitrile parent name for a chain of n carbons.
func NitrileName(n int) string {
	return AlkaneStem(n) + "anenitrile"
}

// CarboxylicAcidName returns the acid name for a chain of n carbons with
// the given acid-group count ("acetic acid", "butanedioic acid").
func CarboxylicAcidName(n, groups int) string {
	if groups >= 2 {
		return AlkaneStem(n) + "ane" + MultiplicativePrefix(groups) + "oic acid"
	}
	if stem, ok := retainedAcylStems[n]; ok {
		return stem + "ic acid"
	}
	return AlkaneStem(n) + "anoic acid"
}

// ─────────────────────────────────────────────────────────────────────────────
// Substituent aliases
// ─────────────────────────────────────────────────────────────────────────────

// halogenPrefixes maps halogen element symbols to substituent prefixes.
var halogenPrefixes = map[string]string{
	"F":  "fluoro",
	"Cl": "chloro",
	"Br": "bromo",
	"I":  "iodo",
}

// HalogenPrefix returns the substituent prefix for a halogen element, or ""
// when the element is not a halogen.
func HalogenPrefix(symbol string) string {
	return halogenPrefixes[symbol]
}

// AlkoxyName returns the -O-alkyl substituent prefix for n carbons
// ("methoxy", "ethoxy", "propoxy").
func AlkoxyName(n int) string {
	switch n {
	case 1:
		return "methoxy"
	case 2:
		return "ethoxy"
	case 3:
		return "propoxy"
	case 4:
		return "butoxy"
	}
	return AlkylName(n) + "oxy"
}

// substituentAliases normalizes a handful of common substituent spellings.
var substituentAliases = map[string]string{
	"phenyl":    "phenyl",
	"benzyl":    "benzyl",
	"vinyl":     "ethenyl",
	"allyl":     "prop-2-en-1-yl",
	"isopropyl": "propan-2-yl",
	"tbutyl":    "tert-butyl",
}

// SubstituentAlias resolves a trivial substituent spelling to its normalized
// form; unknown names are returned unchanged.
func SubstituentAlias(name string) string {
	if canonical, ok := substituentAliases[name]; ok {
		return canonical
	}
	return name
}
