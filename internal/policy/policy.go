// Package policy decides who may act on blog resources and under which name
// a comment is recorded. Everything here is a pure function of its inputs,
// so it is safe to call from any number of request goroutines.
package policy

// Action identifies a resource operation subject to authorization.
type Action int

const (
	ActionList Action = iota
	ActionRetrieve
	ActionCreate
	ActionUpdate
	ActionDelete
)

// String returns the lowercase action name used in logs.
func (a Action) String() string {
	switch a {
	case ActionList:
		return "list"
	case ActionRetrieve:
		return "retrieve"
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Deny means the action is not permitted.
	Deny Decision = iota

	// Allow means the action is permitted.
	Allow
)

// String returns "allow" or "deny".
func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Caller is the identity attached to a single request. The zero value is an
// anonymous caller.
type Caller struct {
	Authenticated bool
	Admin         bool
	UserID        string
	Username      string
}

// Anonymous returns a caller with no identity.
func Anonymous() Caller {
	return Caller{}
}

// Decide reports whether caller may perform action. Reads are open to
// everyone; writes require an authenticated admin.
func Decide(action Action, caller Caller) Decision {
	switch action {
	case ActionList, ActionRetrieve:
		return Allow
	case ActionCreate, ActionUpdate, ActionDelete:
		if caller.Authenticated && caller.Admin {
			return Allow
		}
		return Deny
	default:
		return Deny
	}
}
