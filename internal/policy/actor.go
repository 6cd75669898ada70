package policy

import (
	"fmt"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
)

// Capability is a resolved permission an actor holds. Authentication and
// role resolution happen outside the core; the queue only consumes the
// resulting set.
type Capability string

// Capabilities understood by the review queue.
const (
	CapApprove Capability = "approve"
	CapReject  Capability = "reject"
	CapDelete  Capability = "delete"
)

// Actor identifies who is performing a state-changing operation.
type Actor struct {
	Name         string
	Origin       string
	Capabilities []Capability
}

// SystemActor is used for pipeline-initiated transitions such as the initial
// classification decision.
var SystemActor = Actor{
	Name:         "system",
	Capabilities: []Capability{CapApprove, CapReject, CapDelete},
}

// Can reports whether the actor holds the given capability.
func (a Actor) Can(cap Capability) bool {
	for _, c := range a.Capabilities {
		if c == cap {
			return true
		}
	}
	return false
}

// requiredCapability maps a target status to the capability needed to reach
// it. Deletion is approve-equivalent per the review rules.
func requiredCapability(to model.Status) (Capability, bool) {
	switch to {
	case model.StatusApproved:
		return CapApprove, true
	case model.StatusRejected:
		return CapReject, true
	case model.StatusDeleted:
		return CapDelete, true
	default:
		return "", false
	}
}

// Authorize verifies the actor may drive an item to the target status.
func Authorize(actor Actor, to model.Status) error {
	cap, needed := requiredCapability(to)
	if !needed {
		return nil
	}
	if !actor.Can(cap) {
		return fmt.Errorf("%w: actor %q cannot %s", common.ErrNotPermitted, actor.Name, cap)
	}
	return nil
}
