package service

import (
	"github.com/isbul/app-core/internal/domain/view"
)

// ParameterBus holds the payload threaded into a view transition. It
// stores at most one (view, payload) pair: setting replaces the prior
// pair, and a payload is readable only by the view it was addressed to.
// Anything else observes the zero Params. This makes leftover values
// from an unrelated earlier flow unreadable by construction.
//
// The bus is not goroutine-safe on its own; the controller serializes
// access to it.
type ParameterBus struct {
	target view.View
	params view.Params
	set    bool
}

// NewParameterBus creates an empty bus.
func NewParameterBus() *ParameterBus {
	return &ParameterBus{}
}

// Set addresses payload to target, replacing any prior payload.
func (b *ParameterBus) Set(target view.View, payload view.Params) {
	b.target = target
	b.params = payload
	b.set = true
}

// Get returns the payload addressed to v, or the zero Params when the
// current payload belongs to a different view or none is set.
func (b *ParameterBus) Get(v view.View) view.Params {
	if !b.set || b.target != v {
		return view.Params{}
	}
	return b.params
}

// Clear discards the held payload.
func (b *ParameterBus) Clear() {
	*b = ParameterBus{}
}
