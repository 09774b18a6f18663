package domain

// Status is shared by both order channels. Declaration order matters:
// the in-restaurant machine only moves towards later stages.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusServed    Status = "served"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// AllStatuses lists every status in stage order, terminal states last.
var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusServed,
	StatusCompleted,
	StatusCancelled,
}

// restaurantTransitions is the allowed-next-states graph for in-restaurant
// orders. Skipping stages forward is permitted, moving backward is not, and
// cancellation is reachable from any non-terminal state.
var restaurantTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusPreparing, StatusReady, StatusServed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusReady, StatusServed, StatusCompleted, StatusCancelled},
	StatusPreparing: {StatusReady, StatusServed, StatusCompleted, StatusCancelled},
	StatusReady:     {StatusServed, StatusCompleted, StatusCancelled},
	StatusServed:    {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// customerTransitions is the customer-channel graph. A customer order stays
// pending while it is edited and completes only through payment.
var customerTransitions = map[Status][]Status{
	StatusPending:   {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further mutation of the order is permitted.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionRestaurant checks the in-restaurant graph. Re-asserting the
// current status is treated as a no-op and allowed on non-terminal states.
func CanTransitionRestaurant(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range restaurantTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionCustomer checks the customer-channel graph.
func CanTransitionCustomer(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	for _, next := range customerTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
