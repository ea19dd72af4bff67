package nomenclature

import (
	"sort"
	"strconv"
	"strings"

	"github.com/turtacn/ChemNomen/internal/domain/molecule"
	"github.com/turtacn/ChemNomen/internal/nomenclature/dictionary"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// Name assembly.  The build rule renders the full name for the selected
// method, the format rule applies the deterministic textual normalization,
// and the validate rule records a conflict when the result is unusable.

const scratchValidationFailed = "assembly.validation_failed"

var ruleAssembleName = Rule{
	ID:          "assembly.build",
	Phase:       naming.PhaseNameAssembly,
	Priority:    100,
	BlueBookRef: "P-14.5",
	Description: "assemble the full name for the selected method",
	Condition:   func(ctx *Context) bool { return ctx.State().Parent != nil },
	Action: func(ctx *Context, t Transition) (*Context, error) {
		s := ctx.State()
		var name string
		switch s.Method {
		case naming.MethodFunctionalClass:
			name = buildFunctionalClassName(s)
		case naming.MethodSkeletalReplacement:
			name = buildSkeletalReplacementName(s)
		default:
			name = buildSubstitutiveName(s)
		}
		return ctx.WithName(t, name), nil
	},
}

var ruleFormatName = Rule{
	ID:          "assembly.format",
	Phase:       naming.PhaseNameAssembly,
	Priority:    90,
	BlueBookRef: "P-14.3",
	Description: "normalize hyphenation and casing of the assembled name",
	Condition:   func(ctx *Context) bool { return ctx.State().Name != "" },
	Action: func(ctx *Context, t Transition) (*Context, error) {
		formatted := NormalizeName(ctx.State().Name)
		if formatted == ctx.State().Name {
			return ctx, nil
		}
		return ctx.WithName(t, formatted), nil
	},
}

var ruleValidateName = Rule{
	ID:          "assembly.validate",
	Phase:       naming.PhaseNameAssembly,
	Priority:    80,
	BlueBookRef: "P-14",
	Description: "validate the assembled name",
	Condition:   func(ctx *Context) bool { return true },
	Action: func(ctx *Context, t Transition) (*Context, error) {
		if ValidateName(ctx.State().Name) {
			return ctx, nil
		}
		next := ctx.WithStateUpdate(t, func(s *State) {
			s.Scratch[scratchValidationFailed] = 1
		})
		return next.WithConflict(t, naming.ConflictStateInconsistency,
			"assembled name failed validation"), nil
	},
}

// ─────────────────────────────────────────────────────────────────────────────
// Prefix fragments
// ─────────────────────────────────────────────────────────────────────────────

// prefixForGroup maps a non-principal suffix-capable group to its prefix
// spelling; substituent-only classes are handled by the substituent walk.
var prefixForGroup = map[GroupType]string{
	GroupAlcohol:  "hydroxy",
	GroupThiol:    "sulfanyl",
	GroupAmine:    "amino",
	GroupKetone:   "oxo",
	GroupAldehyde: "oxo",
	GroupNitrile:  "cyano",
}

type prefixItem struct {
	name    string
	locants []string
}

// collectPrefixItems merges the walked substituents with the non-principal
// groups expressed as prefixes, grouped by spelling.
func collectPrefixItems(s *State) []prefixItem {
	byName := make(map[string][]string)
	for _, sub := range s.Parent.Substituents {
		name := dictionary.SubstituentAlias(sub.Name)
		byName[name] = append(byName[name], sub.LocantLabel)
	}
	for _, fg := range s.Groups {
		if fg.Principal || fg.Type.SubstituentOnly() {
			continue
		}
		prefix, ok := prefixForGroup[fg.Type]
		if !ok {
			continue
		}
		label := ""
		if len(fg.Locants) > 0 {
			label = locantString(fg.Locants[0])
		}
		byName[prefix] = append(byName[prefix], label)
	}

	items := make([]prefixItem, 0, len(byName))
	for name, locants := range byName {
		sort.Slice(locants, func(i, j int) bool {
			li, lj := locantNumber(locants[i]), locantNumber(locants[j])
			if li != lj {
				return li < lj
			}
			return locants[i] < locants[j]
		})
		items = append(items, prefixItem{name: name, locants: locants})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].name < items[j].name })
	return items
}

// renderPrefixes builds the leading prefix string.  omitLocants covers the
// two narrow cases where the locant "1" disappears: a lone substituent on a
// two-carbon-or-shorter chain, or on a symmetric monocyclic ring.
func renderPrefixes(items []prefixItem, omitLocants bool) string {
	var fragments []string
	for _, item := range items {
		count := len(item.locants)
		multiplier := dictionary.MultiplicativePrefix(count)
		if isComplexSubstituentName(item.name) {
			multiplier = dictionary.ComplexMultiplicativePrefix(count)
		}
		withLocants := !omitLocants && item.locants[0] != ""
		if withLocants {
			fragments = append(fragments, strings.Join(item.locants, ",")+"-"+multiplier+item.name)
		} else {
			fragments = append(fragments, multiplier+item.name)
		}
	}
	return strings.Join(fragments, "-")
}

// isComplexSubstituentName triggers the bis/tris multiplier series for
// substituent names that already embed locants or brackets.
func isComplexSubstituentName(name string) bool {
	return strings.ContainsAny(name, "0123456789([")
}

// omitPrefixLocants reports whether the narrow locant-"1" omission cases
// apply to the current parent.
func omitPrefixLocants(s *State, items []prefixItem) bool {
	p := s.Parent
	if p.Kind == naming.ParentHeteroatom {
		// Mononuclear hydride: every substituent sits on the single atom.
		return true
	}
	if len(items) != 1 || len(items[0].locants) != 1 {
		return false
	}
	switch p.Kind {
	case naming.ParentChain:
		return len(p.Atoms) <= 2
	case naming.ParentRing:
		return p.Ring != nil && p.Ring.RingCount == 1 && symmetricMonocycle(s, *p.Ring)
	}
	return false
}

// symmetricMonocycle reports whether every ring position is equivalent: a
// carbocycle with no unsaturation pattern breaking the symmetry, or benzene.
func symmetricMonocycle(s *State, ring CandidateRing) bool {
	if ring.HeteroScore != 0 {
		return false
	}
	if ring.Aromatic {
		return true
	}
	for i, id := range ring.Atoms {
		next := ring.Atoms[(i+1)%len(ring.Atoms)]
		if bond, ok := s.Graph.BondBetween(id, next); ok && bond.Order != mtypes.BondSingle {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Substitutive construction
// ─────────────────────────────────────────────────────────────────────────────

func buildSubstitutiveName(s *State) string {
	items := collectPrefixItems(s)
	prefixes := renderPrefixes(items, omitPrefixLocants(s, items))
	parent := buildParentWithSuffix(s)
	if prefixes == "" {
		return parent
	}
	return prefixes + parent
}

func buildParentWithSuffix(s *State) string {
	p := s.Parent
	principal := s.PrincipalGroups()
	var kind GroupType
	if len(principal) > 0 {
		kind = principal[0].Type
	}

	if p.Kind == naming.ParentChain {
		n := len(p.Atoms)
		count := len(principal)
		switch kind {
		case GroupCarboxylicAcid:
			return dictionary.CarboxylicAcidName(n, count)
		case GroupAmide:
			if count >= 2 {
				return dictionary.AlkaneStem(n) + "ane" + dictionary.MultiplicativePrefix(count) + "amide"
			}
			return dictionary.AmideName(n)
		case GroupNitrile:
			if count >= 2 {
				return dictionary.AlkaneStem(n) + "ane" + dictionary.MultiplicativePrefix(count) + "nitrile"
			}
			return dictionary.NitrileName(n)
		case GroupEster:
			return chainBaseName(s) + "oate"
		}
	}

	base := parentBaseName(s)
	suffix, wantsLocant := principalSuffix(kind)
	if suffix == "" {
		return base
	}
	return attachSuffix(s, base, suffix, principal, wantsLocant)
}

// principalSuffix returns the suffix spelling for a principal class and
// whether the suffix cites a locant on a long enough parent.
func principalSuffix(kind GroupType) (string, bool) {
	switch kind {
	case GroupKetone:
		return "one", true
	case GroupAlcohol:
		return "ol", true
	case GroupThiol:
		return "thiol", true
	case GroupAmine:
		return "amine", true
	case GroupAldehyde:
		return "al", false
	}
	return "", false
}

// attachSuffix joins base and suffix, inserting locants and a multiplier
// and eliding the parent's trailing "e" before a vowel-initial suffix.
func attachSuffix(s *State, base, suffix string, principal []FunctionalGroup, wantsLocant bool) string {
	count := len(principal)
	var locants []int
	for _, fg := range principal {
		if len(fg.Locants) > 0 {
			locants = append(locants, fg.Locants[0])
		}
	}
	sort.Ints(locants)

	multiplier := ""
	if count >= 2 {
		multiplier = dictionary.MultiplicativePrefix(count)
	}

	base = elideFinalE(base, multiplier+suffix)
	showLocant := wantsLocant && len(locants) > 0 && !suffixLocantOmittable(s, locants)
	if showLocant {
		return base + "-" + joinLocants(locants) + "-" + multiplier + suffix
	}
	return base + multiplier + suffix
}

// suffixLocantOmittable drops the suffix locant on tiny chains and on a
// symmetric monocycle carrying the lone principal group.
func suffixLocantOmittable(s *State, locants []int) bool {
	if len(locants) != 1 {
		return false
	}
	p := s.Parent
	switch p.Kind {
	case naming.ParentChain:
		return len(p.Atoms) <= 2
	case naming.ParentHeteroatom:
		return true
	case naming.ParentRing:
		return p.Ring != nil && p.Ring.RingCount == 1 && symmetricMonocycle(s, *p.Ring) &&
			len(p.Substituents) == 0
	}
	return false
}

// elideFinalE drops a trailing "e" before a vowel-initial suffix, so
// "oxolane"+"one" becomes "oxolan-2-one" and "ethane"+"ol" "ethanol", while
// "propane"+"diol" keeps its "e".
func elideFinalE(base, suffix string) string {
	if !strings.HasSuffix(base, "e") || suffix == "" {
		return base
	}
	switch suffix[0] {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return strings.TrimSuffix(base, "e")
	}
	return base
}

// parentBaseName renders the bare parent hydride name.
func parentBaseName(s *State) string {
	p := s.Parent
	switch p.Kind {
	case naming.ParentRing:
		if p.Name != "" {
			return p.Name
		}
		return dictionary.CarbocycleName(len(p.Atoms))
	case naming.ParentHeteroatom:
		return p.Name
	default:
		return chainBaseName(s) + "e"
	}
}

// chainBaseName is the chain stem with unsaturation infixes but no final
// "ane/ene/yne" tail when unsaturated forms carry their own endings.
func chainBaseName(s *State) string {
	p := s.Parent
	n := len(p.Atoms)
	doubles, triples := splitUnsaturations(p.Unsaturations)
	if len(doubles) == 0 && len(triples) == 0 {
		return dictionary.AlkaneStem(n) + "an"
	}

	stem := dictionary.AlkaneStem(n)
	if len(doubles)+len(triples) >= 2 {
		stem += "a"
	}
	name := stem
	if len(doubles) > 0 {
		ending := "en"
		if n > 2 {
			name += "-" + joinLocants(doubles) + "-"
		}
		name += dictionary.MultiplicativePrefix(len(doubles)) + ending
	}
	if len(triples) > 0 {
		if n > 2 {
			name += "-" + joinLocants(triples) + "-"
		}
		name += dictionary.MultiplicativePrefix(len(triples)) + "yn"
	}
	return name
}

func splitUnsaturations(unsats []MultipleBond) (doubles, triples []int) {
	for _, mb := range unsats {
		switch mb.Order {
		case mtypes.BondDouble:
			doubles = append(doubles, mb.Locant)
		case mtypes.BondTriple:
			triples = append(triples, mb.Locant)
		}
	}
	sort.Ints(doubles)
	sort.Ints(triples)
	return doubles, triples
}

func joinLocants(locants []int) string {
	parts := make([]string, len(locants))
	for i, loc := range locants {
		parts[i] = locantString(loc)
	}
	return strings.Join(parts, ",")
}

func locantString(loc int) string { return strconv.Itoa(loc) }

// ─────────────────────────────────────────────────────────────────────────────
// Functional-class construction
// ─────────────────────────────────────────────────────────────────────────────

func buildFunctionalClassName(s *State) string {
	switch {
	case len(s.GroupsOfType(GroupEster)) > 0:
		return buildEsterName(s)
	case len(s.GroupsOfType(GroupAnhydride)) > 0:
		return buildAnhydrideName(s)
	case len(s.GroupsOfType(GroupAcylHalide)) > 0:
		return buildAcylHalideName(s)
	case len(s.GroupsOfType(GroupThioester)) > 0:
		return buildThioesterName(s)
	case len(s.GroupsOfType(GroupThiocyanate)) > 0:
		return buildThiocyanateName(s)
	case len(s.GroupsOfType(GroupNitrile)) > 0:
		return buildNitrileName(s)
	case len(s.GroupsOfType(GroupBorane)) > 0:
		return buildBoraneName(s)
	}
	return buildSubstitutiveName(s)
}

// buildEsterName renders "<alkyl> <acid-anion>": "methyl acetate",
// "dimethyl butanedioate".
func buildEsterName(s *State) string {
	esters := s.GroupsOfType(GroupEster)
	parentLen := len(s.Parent.Atoms)
	onParent := 0
	member := make(map[int]bool, parentLen)
	for _, id := range s.Parent.Atoms {
		member[id] = true
	}
	var alkyls []string
	for _, e := range esters {
		if member[e.BaseAtom()] {
			onParent++
		}
		branch := alkoxySubtree(s.Graph, e.Atoms[0], e.Atoms[2])
		carbons := 0
		for _, id := range branch {
			if s.Graph.IsCarbon(id) {
				carbons++
			}
		}
		if carbons > 0 {
			alkyls = append(alkyls, dictionary.AlkylName(carbons))
		}
	}
	if onParent == 0 {
		onParent = len(esters)
	}
	return multipliedFragment(alkyls) + " " + dictionary.EsterAnionName(parentLen, onParent)
}

func buildAnhydrideName(s *State) string {
	acid := dictionary.CarboxylicAcidName(len(s.Parent.Atoms)+1, 1)
	return strings.TrimSuffix(acid, " acid") + "ic anhydride"
}

func buildAcylHalideName(s *State) string {
	fg := s.GroupsOfType(GroupAcylHalide)[0]
	halide := map[string]string{"F": "fluoride", "Cl": "chloride", "Br": "bromide", "I": "iodide"}
	word := "halide"
	if len(fg.Atoms) >= 3 {
		if w, ok := halide[s.Graph.Symbol(fg.Atoms[2])]; ok {
			word = w
		}
	}
	return acylGroupName(len(s.Parent.Atoms)) + " " + word
}

// acylGroupName is the R-CO- fragment name: "formyl", "acetyl", "propanoyl".
func acylGroupName(n int) string {
	stem := dictionary.AcylStem(n)
	if n <= 2 {
		return stem + "yl"
	}
	return stem + "oyl"
}

func buildThioesterName(s *State) string {
	esters := s.GroupsOfType(GroupThioester)
	var alkyls []string
	for _, e := range esters {
		branch := alkoxySubtree(s.Graph, e.Atoms[0], e.Atoms[2])
		carbons := 0
		for _, id := range branch {
			if s.Graph.IsCarbon(id) {
				carbons++
			}
		}
		if carbons > 0 {
			alkyls = append(alkyls, "S-"+dictionary.AlkylName(carbons))
		}
	}
	n := len(s.Parent.Atoms)
	return multipliedFragment(alkyls) + " " + dictionary.AlkaneStem(n) + "anethioate"
}

func buildThiocyanateName(s *State) string {
	n := len(s.Parent.Atoms)
	return dictionary.AlkylName(n) + " thiocyanate"
}

func buildNitrileName(s *State) string {
	items := collectPrefixItems(s)
	prefixes := renderPrefixes(items, omitPrefixLocants(s, items))
	count := len(s.GroupsOfType(GroupNitrile))
	n := len(s.Parent.Atoms)
	name := dictionary.NitrileName(n)
	if count >= 2 {
		name = dictionary.AlkaneStem(n) + "ane" + dictionary.MultiplicativePrefix(count) + "nitrile"
	}
	return prefixes + name
}

func buildBoraneName(s *State) string {
	items := collectPrefixItems(s)
	return renderPrefixes(items, true) + "borane"
}

// multipliedFragment merges identical fragment names under a multiplying
// prefix: two "methyl" become "dimethyl".
func multipliedFragment(names []string) string {
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	identical := true
	for _, n := range names[1:] {
		if n != names[0] {
			identical = false
			break
		}
	}
	if identical && len(names) >= 2 {
		multiplier := dictionary.MultiplicativePrefix(len(names))
		if isComplexSubstituentName(names[0]) {
			multiplier = dictionary.ComplexMultiplicativePrefix(len(names))
		}
		return multiplier + names[0]
	}
	return strings.Join(names, " ")
}

// ─────────────────────────────────────────────────────────────────────────────
// Skeletal replacement construction
// ─────────────────────────────────────────────────────────────────────────────

// buildSkeletalReplacementName names a heteroatom-rich backbone with "a"
// replacement prefixes: "2,5,8-trioxadecane".  The backbone is the longest
// mixed carbon/heteroatom path, re-walked here because candidate chains are
// carbon-only.
func buildSkeletalReplacementName(s *State) string {
	path := longestMixedPath(s.Graph)
	if len(path) < 3 {
		return buildSubstitutiveName(s)
	}
	fwd := skeletalLocants(s.Graph, path)
	rev := skeletalLocants(s.Graph, reversedInts(path))
	if CompareLocantSets(flattenSkeletal(rev), flattenSkeletal(fwd)) < 0 {
		fwd = rev
	}

	type heteroRun struct {
		prefix  string
		locants []int
		rank    int
	}
	byPrefix := make(map[string]*heteroRun)
	var order []string
	for _, hl := range fwd {
		run, ok := byPrefix[hl.prefix]
		if !ok {
			run = &heteroRun{prefix: hl.prefix, rank: hl.rank}
			byPrefix[hl.prefix] = run
			order = append(order, hl.prefix)
		}
		run.locants = append(run.locants, hl.locant)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return byPrefix[order[i]].rank < byPrefix[order[j]].rank
	})

	var b strings.Builder
	for _, prefix := range order {
		run := byPrefix[prefix]
		sort.Ints(run.locants)
		b.WriteString(joinLocants(run.locants))
		b.WriteString("-")
		b.WriteString(dictionary.MultiplicativePrefix(len(run.locants)))
		b.WriteString(run.prefix)
	}
	b.WriteString(dictionary.AlkaneName(len(path)))
	return b.String()
}

type skeletalLocant struct {
	locant int
	prefix string
	rank   int
}

func skeletalLocants(g *molecule.Graph, path []int) []skeletalLocant {
	var out []skeletalLocant
	for i, id := range path {
		if !g.IsHeteroatom(id) {
			continue
		}
		out = append(out, skeletalLocant{
			locant: i + 1,
			prefix: replacementPrefix(g.Symbol(id)),
			rank:   molecule.HeteroatomRank(g.Symbol(id)),
		})
	}
	return out
}

func flattenSkeletal(locants []skeletalLocant) []int {
	out := make([]int, len(locants))
	for i, hl := range locants {
		out[i] = hl.locant
	}
	sort.Ints(out)
	return out
}

// longestMixedPath finds the longest simple path over acyclic skeleton
// atoms, heteroatoms included.  Terminal hydroxy-style oxygens still count
// as path members; the path just has to be the longest one available.
func longestMixedPath(g *molecule.Graph) []int {
	var best []int
	var dfs func(path []int, visited map[int]bool)
	dfs = func(path []int, visited map[int]bool) {
		if len(path) > len(best) {
			best = append([]int(nil), path...)
		}
		tip := path[len(path)-1]
		for _, n := range g.Neighbors(tip) {
			if visited[n] {
				continue
			}
			visited[n] = true
			dfs(append(path, n), visited)
			delete(visited, n)
		}
	}
	for id := 0; id < g.AtomCount(); id++ {
		if g.Degree(id) <= 1 {
			dfs([]int{id}, map[int]bool{id: true})
		}
	}
	if best == nil && g.AtomCount() > 0 {
		dfs([]int{0}, map[int]bool{0: true})
	}
	return best
}
