package types

import "fmt"

//
// Per-file outcome states
//
type OutcomeState int
const (
	Created	= OutcomeState(iota)	// digest was not in the store, record added
	Updated							// digest existed, recorded path replaced
	Hit								// digest found in the store
	Miss							// digest is not in the store
	Deleted							// record(s) of the path removed from the store
	NoEntry							// no record of the path to remove
	OpError							// file could not be processed
)
func (st OutcomeState) String() string {
	switch st {
	case Created: return "CREATED"
	case Updated: return "UPDATED"
	case Hit: return "HIT"
	case Miss: return "MISS"
	case Deleted: return "DELETED"
	case NoEntry: return "NOENTRY"
	case OpError: return "ERROR"
	default:
		panic(fmt.Sprintf("Unsupported outcome state %d", st))
	}
}

//
// Outcome - the result of processing of a single file path by a command
//
type Outcome struct {
	State	OutcomeState
	Path	string	// path as it was provided by the user
	AbsPath	string	// absolute form of Path, as it is recorded in the store
	Digest	Digest	// digest of the file content, empty if calculation failed
	RecPath	string	// path recorded in the store, filled only for the Hit state
	Err		error	// failure reason, filled only for the OpError state
}

// Line renders the outcome as a single output line:
//
//  CREATED <path>
//  UPDATED <path>
//  HIT <path> -> <recordedPath>
//  MISS <path>
//  DELETED <path>
//  NOENTRY <path>
//  ERROR <path>: <message>
//
// If absPaths is set, the absolute form of the path is printed.
// If showSums is set, the digest is inserted between the state and the path.
func (o *Outcome) Line(absPaths, showSums bool) string {
	path := o.Path
	if absPaths && o.AbsPath != "" {
		path = o.AbsPath
	}

	out := o.State.String()

	if showSums {
		sum := o.Digest.String()
		if sum == "" {
			// No digest was calculated for this path
			sum = DigestErrStub
		}
		out += " " + sum
	}

	out += " " + path

	switch o.State {
	case Hit:
		out += " -> " + o.RecPath
	case OpError:
		out += ": " + o.Err.Error()
	default:
		// Nothing to append for other states
	}

	return out
}
