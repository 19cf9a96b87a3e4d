package health

import "context"

// Pinger is any dependency that can report whether it is reachable.
// Ping must honour ctx cancellation; Check relies on it for the probe timeout.
type Pinger interface {
	Ping(ctx context.Context) error
}
