package feed

import "github.com/Makepad-fr/talentlink/internal/model"

// Route is a view a notification can open.
type Route int

const (
	RouteNone Route = iota
	RouteThread
	RouteContract
	RouteProposalEditor
)

func (r Route) String() string {
	switch r {
	case RouteThread:
		return "thread"
	case RouteContract:
		return "contract"
	case RouteProposalEditor:
		return "proposal-editor"
	default:
		return "none"
	}
}

// Target is where to go after opening a notification.
type Target struct {
	Route Route
	ID    int64
}

// TargetFor maps a notification to its view: a message opens the thread
// with the actor, a contract or proposal opens it by target id. Unknown
// kinds go nowhere.
func TargetFor(n model.Notification) Target {
	switch n.Target() {
	case model.TargetMessage:
		return Target{Route: RouteThread, ID: n.Actor}
	case model.TargetContract:
		return Target{Route: RouteContract, ID: n.TargetID}
	case model.TargetProposal:
		return Target{Route: RouteProposalEditor, ID: n.TargetID}
	default:
		return Target{Route: RouteNone}
	}
}
