package cookienonce

// waiter receives the outcome of the login sequence it queued behind.
type waiter func(err error)

// authState is either idle or authenticating. Only authenticating carries
// waiters, so a queue can never outlive the sequence that drains it.
type authState interface {
	isAuthState()
}

type idle struct{}

type authenticating struct {
	sequenceID string
	waiters    []waiter
}

func (idle) isAuthState()            {}
func (*authenticating) isAuthState() {}
