package clock

import "time"

// Clock abstracts wall-clock reads so buffer-expiry behaviour can be tested
// with a deterministic time source.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a Clock backed by time.Now.
func System() Clock { return systemClock{} }

// Fake is a manually advanced Clock for tests.
type Fake struct {
	Current time.Time
}

func NewFake(at time.Time) *Fake {
	return &Fake{Current: at}
}

func (f *Fake) Now() time.Time { return f.Current }

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}
