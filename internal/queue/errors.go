package queue

import "errors"

// ErrConflict indicates a status transition was requested for an item that is
// no longer in the required state (for example completing an item that was
// never claimed). Callers relying on the atomic claim treat this as losing
// the race rather than as a fault.
var ErrConflict = errors.New("queue: item not in required status")
