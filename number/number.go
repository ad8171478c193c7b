// Package number provides number sources: pure functions of their inputs
// and stateful functions which borrow state of the node evaluating them.
package number

import (
	"math"

	approx "github.com/cwbudde/algo-approx"

	"github.com/dudk/flo"
)

// Constant returns a source which always evaluates to v.
func Constant(v float64) *flo.Function {
	return flo.NewFunction("constant", func(*flo.State) float64 {
		return v
	})
}

// Add is the sum of two inputs.
type Add struct {
	*flo.Function
	A, B *flo.NumberInput
}

// NewAdd returns a sum of two inputs with zero defaults.
func NewAdd() *Add {
	a := &Add{}
	a.Function = flo.NewFunction("add", func(ctx *flo.State) float64 {
		return a.A.Evaluate(ctx) + a.B.Evaluate(ctx)
	})
	a.A, a.B = a.NewInput(0), a.NewInput(0)
	return a
}

// Multiply is the product of two inputs.
type Multiply struct {
	*flo.Function
	A, B *flo.NumberInput
}

// NewMultiply returns a product of two inputs with unit defaults.
func NewMultiply() *Multiply {
	m := &Multiply{}
	m.Function = flo.NewFunction("multiply", func(ctx *flo.State) float64 {
		return m.A.Evaluate(ctx) * m.B.Evaluate(ctx)
	})
	m.A, m.B = m.NewInput(1), m.NewInput(1)
	return m
}

// Sine is the sine of input in radians.
type Sine struct {
	*flo.Function
	Input *flo.NumberInput
}

// NewSine returns a sine function.
func NewSine() *Sine {
	s := &Sine{}
	s.Function = flo.NewFunction("sine", func(ctx *flo.State) float64 {
		return math.Sin(s.Input.Evaluate(ctx))
	})
	s.Input = s.NewInput(0)
	return s
}

// Clamp limits input to [Min, Max].
type Clamp struct {
	*flo.Function
	Input, Min, Max *flo.NumberInput
}

// NewClamp returns a clamp with [0, 1] range.
func NewClamp() *Clamp {
	c := &Clamp{}
	c.Function = flo.NewFunction("clamp", func(ctx *flo.State) float64 {
		lo, hi := c.Min.Evaluate(ctx), c.Max.Evaluate(ctx)
		return math.Max(lo, math.Min(hi, c.Input.Evaluate(ctx)))
	})
	c.Input, c.Min, c.Max = c.NewInput(0), c.NewInput(0), c.NewInput(1)
	return c
}

type smoothing struct {
	value   float64
	started bool
}

func (s *smoothing) Reset() {
	s.value, s.started = 0, false
}

// Smoother follows its input exponentially. It keeps the last value in
// every context it's evaluated in and must be evaluated once per sample.
type Smoother struct {
	*flo.BorrowingNumberSource
	Input *flo.NumberInput
	// Response is the time constant in seconds.
	Response *flo.NumberInput
}

// NewSmoother returns a smoother with 10ms response.
func NewSmoother() *Smoother {
	s := &Smoother{}
	s.BorrowingNumberSource = flo.NewBorrowingNumberSource("smoother", func() flo.StateData {
		return &smoothing{}
	}, s.evaluate)
	s.Input = s.NewInput(0)
	s.Response = s.NewInput(0.01)
	return s
}

func (s *Smoother) evaluate(data flo.StateData, ctx *flo.State) float64 {
	st := data.(*smoothing)
	target := s.Input.Evaluate(ctx)
	if !st.started {
		st.value, st.started = target, true
		return target
	}
	st.value += (target - st.value) * coefficient(s.Response.Evaluate(ctx))
	return st.value
}

// coefficient returns the one-pole factor for time constant t.
func coefficient(t float64) float64 {
	if t <= 0 {
		return 1
	}
	return 1 - float64(approx.FastExp(float32(-1/(t*flo.SampleRate))))
}

type accumulation struct {
	sum float64
}

func (a *accumulation) Reset() {
	a.sum = 0
}

// Accumulator integrates its input over time: every evaluation adds one
// sample worth of input.
type Accumulator struct {
	*flo.BorrowingNumberSource
	Input *flo.NumberInput
}

// NewAccumulator returns an accumulator with unit rate.
func NewAccumulator() *Accumulator {
	a := &Accumulator{}
	a.BorrowingNumberSource = flo.NewBorrowingNumberSource("accumulator", func() flo.StateData {
		return &accumulation{}
	}, func(data flo.StateData, ctx *flo.State) float64 {
		st := data.(*accumulation)
		v := st.sum
		st.sum += a.Input.Evaluate(ctx) / flo.SampleRate
		return v
	})
	a.Input = a.NewInput(1)
	return a
}
