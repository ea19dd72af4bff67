package nomenclature

import (
	"sort"

	"github.com/turtacn/ChemNomen/internal/domain/molecule"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// ─────────────────────────────────────────────────────────────────────────────
// Atomic analysis
// ─────────────────────────────────────────────────────────────────────────────

// Hybridization is the estimated orbital hybridization of an atom.
type Hybridization string

const (
	HybridSP      Hybridization = "sp"
	HybridSP2     Hybridization = "sp2"
	HybridSP3     Hybridization = "sp3"
	HybridUnknown Hybridization = "unknown"
)

// BondCounts is the per-atom bond-order histogram.
type BondCounts struct {
	Single   int
	Double   int
	Triple   int
	Aromatic int
}

// AtomicAnalysis holds the derived per-atom facts, as index-keyed parallel
// arrays over atom IDs; the engine's substituent and ring-attachment walks
// are traversal-heavy, so arrays beat keyed maps here.
type AtomicAnalysis struct {
	Hybridization []Hybridization
	Valence       []int
	Aromatic      []bool
	BondHistogram []BondCounts
}

// ─────────────────────────────────────────────────────────────────────────────
// Functional groups
// ─────────────────────────────────────────────────────────────────────────────

// GroupType identifies a functional-group class.
type GroupType string

const (
	GroupCarboxylicAcid GroupType = "carboxylic_acid"
	GroupAnhydride      GroupType = "anhydride"
	GroupEster          GroupType = "ester"
	GroupThioester      GroupType = "thioester"
	GroupAcylHalide     GroupType = "acyl_halide"
	GroupAcylCyanide    GroupType = "acyl_cyanide"
	GroupAmide          GroupType = "amide"
	GroupImide          GroupType = "imide"
	GroupNitrile        GroupType = "nitrile"
	GroupThiocyanate    GroupType = "thiocyanate"
	GroupAldehyde       GroupType = "aldehyde"
	GroupKetone         GroupType = "ketone"
	GroupAlcohol        GroupType = "alcohol"
	GroupThiol          GroupType = "thiol"
	GroupAmine          GroupType = "amine"
	GroupEther          GroupType = "ether"
	GroupBorane         GroupType = "borane"
	GroupAlkoxy         GroupType = "alkoxy"
	GroupHalogen        GroupType = "halogen"
	GroupAlkyl          GroupType = "alkyl"
)

// groupPriorities is the normalized numeric seniority of each group class.
// Higher means more senior; the principal characteristic group is the class
// holding the maximum priority among detected, suffix-capable groups.
var groupPriorities = map[GroupType]int{
	GroupCarboxylicAcid: 100,
	GroupAnhydride:      95,
	GroupEster:          90,
	GroupThioester:      88,
	GroupAcylHalide:     85,
	GroupAcylCyanide:    84,
	GroupAmide:          80,
	GroupImide:          79,
	GroupNitrile:        75,
	GroupThiocyanate:    74,
	GroupAldehyde:       70,
	GroupKetone:         65,
	GroupAlcohol:        60,
	GroupThiol:          58,
	GroupAmine:          55,
	GroupEther:          40,
	GroupBorane:         30,
	GroupAlkoxy:         20,
	GroupHalogen:        10,
	GroupAlkyl:          5,
}

// substituentOnly marks the classes that can never be expressed as a suffix.
var substituentOnly = map[GroupType]bool{
	GroupEther:   true,
	GroupAlkoxy:  true,
	GroupHalogen: true,
	GroupAlkyl:   true,
}

// terminalPrincipalClasses are the always-principal terminal classes kept
// during ring selection even when only directly bonded to the ring.
var terminalPrincipalClasses = map[GroupType]bool{
	GroupEster:          true,
	GroupCarboxylicAcid: true,
	GroupAldehyde:       true,
	GroupKetone:         true,
	GroupAmide:          true,
	GroupAcylHalide:     true,
	GroupAnhydride:      true,
	GroupImide:          true,
	GroupThioester:      true,
	GroupAcylCyanide:    true,
}

// Priority returns the normalized seniority of the group class.
func (t GroupType) Priority() int { return groupPriorities[t] }

// SubstituentOnly reports whether the class can never be a suffix.
func (t GroupType) SubstituentOnly() bool { return substituentOnly[t] }

// FunctionalGroup is one detected functional group.  Atoms[0] is the
// characteristic (attachment) atom: the carbonyl carbon for acyl classes,
// the oxygen for alcohols and alkoxy groups, the nitrogen for amines.  All
// entries are atom IDs resolved through the owning molecule — group members
// are never stored as atom copies.
type FunctionalGroup struct {
	Type      GroupType
	Atoms     []int
	Priority  int
	Principal bool
	Locants   []int
	Prefix    string
	Suffix    string
	NameCache string
}

// BaseAtom returns the characteristic atom ID of the group.
func (fg FunctionalGroup) BaseAtom() int {
	if len(fg.Atoms) == 0 {
		return -1
	}
	return fg.Atoms[0]
}

// ─────────────────────────────────────────────────────────────────────────────
// Candidates
// ─────────────────────────────────────────────────────────────────────────────

// MultipleBond records one unsaturation on a candidate structure.  Locant is
// the 1-based position of the lower-numbered bond end in the structure's
// current orientation.
type MultipleBond struct {
	Locant int
	Order  mtypes.BondOrder
}

// Substituent is one branch hanging off a parent structure or candidate.
// LocantLabel is a string because amide nitrogen substituents carry the
// letter locant "N" rather than a number.
type Substituent struct {
	Name        string
	LocantLabel string
	AtomIDs     []int
}

// CandidateChain is one candidate parent chain: an ordered carbon path.
type CandidateChain struct {
	Atoms         []int
	Length        int
	MultipleBonds []MultipleBond
	Substituents  []Substituent
}

// CandidateRing is one candidate parent ring system: one or more member
// rings that have been merged when they share a bond.
type CandidateRing struct {
	Rings       [][]int
	Atoms       []int
	RingCount   int
	Size        int
	HeteroScore int
	Aromatic    bool
	Name        string
}

// Contains reports whether the ring system contains the atom.
func (r CandidateRing) Contains(id int) bool {
	for _, a := range r.Atoms {
		if a == id {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Parent structure
// ─────────────────────────────────────────────────────────────────────────────

// ParentStructure is the chosen backbone of the name.  At most one parent is
// ever set; once set it is frozen and read-only for all later phases.
type ParentStructure struct {
	Kind          naming.ParentKind
	Name          string
	Atoms         []int
	Locants       map[int]int // atom id → locant
	Substituents  []Substituent
	Unsaturations []MultipleBond
	Chain         *CandidateChain
	Ring          *CandidateRing
	HydrideSymbol string
	VonBaeyer     map[int]int
}

// ─────────────────────────────────────────────────────────────────────────────
// State
// ─────────────────────────────────────────────────────────────────────────────

// State is the complete naming-session state carried by a Context.  Values
// inside a State are treated as immutable: rules construct replacement
// slices and maps instead of mutating in place, so the shallow clone taken
// on every transition keeps prior snapshots valid for audit.
type State struct {
	Graph *molecule.Graph

	// PerceivedRings holds the raw atom-ID cycles reported by the external
	// ring-perception collaborator.  The engine trusts them as-is.
	PerceivedRings [][]int

	Atomic         *AtomicAnalysis
	Groups         []FunctionalGroup
	Chains         []CandidateChain
	Rings          []CandidateRing
	Parent         *ParentStructure
	Method         naming.Method
	MethodAssigned bool
	Name           string
	Conflicts      []naming.Conflict
	Trace          []naming.TraceEntry
	Completed      map[naming.Phase]bool

	// Scratch carries the thresholds and applied flags the chain seniority
	// cascade steps write for the next step to validate.
	Scratch map[string]int
}

// clone returns a shallow copy of the state with fresh slice and map
// headers, so appends on the copy never disturb the original.
func (s *State) clone() *State {
	next := *s
	next.Groups = append([]FunctionalGroup(nil), s.Groups...)
	next.Chains = append([]CandidateChain(nil), s.Chains...)
	next.Rings = append([]CandidateRing(nil), s.Rings...)
	next.Conflicts = append([]naming.Conflict(nil), s.Conflicts...)
	next.Trace = append([]naming.TraceEntry(nil), s.Trace...)
	next.Completed = make(map[naming.Phase]bool, len(s.Completed))
	for k, v := range s.Completed {
		next.Completed[k] = v
	}
	next.Scratch = make(map[string]int, len(s.Scratch))
	for k, v := range s.Scratch {
		next.Scratch[k] = v
	}
	return &next
}

// PrincipalGroups returns the groups currently flagged principal.
func (s *State) PrincipalGroups() []FunctionalGroup {
	var out []FunctionalGroup
	for _, g := range s.Groups {
		if g.Principal {
			out = append(out, g)
		}
	}
	return out
}

// GroupsOfType returns all groups of the given class.
func (s *State) GroupsOfType(t GroupType) []FunctionalGroup {
	var out []FunctionalGroup
	for _, g := range s.Groups {
		if g.Type == t {
			out = append(out, g)
		}
	}
	return out
}

// LongestChainLength returns the length of the longest candidate chain, or 0.
func (s *State) LongestChainLength() int {
	max := 0
	for _, c := range s.Chains {
		if c.Length > max {
			max = c.Length
		}
	}
	return max
}

// sortedUnion returns the sorted union of the given atom-ID cycles.
func sortedUnion(cycles [][]int) []int {
	set := make(map[int]bool)
	for _, cycle := range cycles {
		for _, id := range cycle {
			set[id] = true
		}
	}
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
