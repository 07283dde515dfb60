package data

import "time"

// Clock supplies the timestamps repositories write. Tests substitute a
// deterministic clock so ordering by created_at is predictable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
