package bds

import "github.com/google/uuid"

// Options are the optional settings shared by State and Forest
type Options struct {
	budget    int
	budgetSet bool
	forestID  uuid.UUID
}

type Option func(*Options)

// WithBudget overrides the number of scheduler rounds spent per traversed
// leaf. The default, (H-K)/2, is the smallest budget which guarantees every
// treehash completes in time. Anything lower risks ErrInconsistentState.
func WithBudget(rounds int) Option {
	return func(o *Options) {
		o.budget = rounds
		o.budgetSet = true
	}
}

// WithForestID sets the identity a Forest reports in its log lines. A random
// id is used otherwise.
func WithForestID(id uuid.UUID) Option {
	return func(o *Options) {
		o.forestID = id
	}
}

func newOptions(params Params, opts ...Option) Options {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.budgetSet {
		o.budget = params.Budget()
	}
	return o
}
