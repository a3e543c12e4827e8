package testset

import "fmt"

// Verdict is the outcome of evaluating a test over a whole box.
type Verdict int

// Verdict codes. Outside and Undecided are both inconclusive: Outside means
// the test cannot fire anywhere in the box, Undecided that the box is too
// coarse to tell.
const (
	Outside            Verdict = 0
	BoxImpossible      Verdict = 1
	Undecided          Verdict = 2
	IdentityImpossible Verdict = 3
	LatticeImpossible  Verdict = 4
	PowerImpossible    Verdict = 5
	VarietyCandidate   Verdict = 6
	InvalidIdentity    Verdict = 7
)

// Eliminates reports whether the verdict alone removes the box.
// InvalidIdentity counts: it is recorded as an elimination and audited
// separately.
func (v Verdict) Eliminates() bool {
	switch v {
	case BoxImpossible, IdentityImpossible, LatticeImpossible, PowerImpossible, InvalidIdentity:
		return true
	default:
		return false
	}
}

func (v Verdict) String() string {
	switch v {
	case Outside:
		return "outside"
	case BoxImpossible:
		return "impossible box"
	case Undecided:
		return "undecided"
	case IdentityImpossible:
		return "impossible identity"
	case LatticeImpossible:
		return "impossible lattice"
	case PowerImpossible:
		return "impossible power"
	case VarietyCandidate:
		return "variety"
	case InvalidIdentity:
		return "invalid identity"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}
