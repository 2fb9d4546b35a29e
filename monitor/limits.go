package monitor

import (
	"sync/atomic"

	"gitlab.com/tinyland/lab/resmon/collectors"
)

// Limits holds the current LimitSet. Readers always observe a complete set;
// writers replace it wholesale.
type Limits struct {
	p atomic.Pointer[collectors.LimitSet]
}

// NewLimits creates a holder seeded with initial.
func NewLimits(initial collectors.LimitSet) *Limits {
	l := &Limits{}
	l.Store(initial)
	return l
}

// Load returns the current limit set.
func (l *Limits) Load() collectors.LimitSet {
	if s := l.p.Load(); s != nil {
		return *s
	}
	return collectors.LimitSet{}
}

// Store replaces the current limit set.
func (l *Limits) Store(s collectors.LimitSet) {
	l.p.Store(&s)
}
