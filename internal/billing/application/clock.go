package application

import "time"

// Clock supplies the reference time for billing runs so tests can inject
// fixed instants instead of reading the wall clock.
type Clock interface {
	Now() time.Time
}
