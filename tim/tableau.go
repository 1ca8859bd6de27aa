// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tim implements explicit, embedded-adaptive and implicit
// Runge-Kutta time stepping over right-hand-side and Jacobian-action
// callbacks supplied by the physics
package tim

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// RhsFunc evaluates dy/dt at (t, y)
type RhsFunc func(t float64, y []float64) ([]float64, error)

// StageFunc solves (I - tau·J) x = b around the current state, where J is
// the Jacobian action of the right-hand side. Only implicit schemes use it.
type StageFunc func(t, tau float64, b []float64) ([]float64, error)

// RungeKutta advances a semi-discrete ODE by one step. Step updates y in
// place and returns the time actually reached, which for embedded schemes
// may differ from t+dt. DeltaTGuess returns the suggested size for the next
// step; fixed-step schemes echo the configured step unchanged.
type RungeKutta interface {
	Step(f RhsFunc, jinv StageFunc, t, dt float64, y []float64) (float64, error)
	DeltaTGuess() float64
}

// Config holds time-adaptation and Newton parameters
type Config struct {
	CoarsenParam float64 // step multiplier after a very accurate step
	RefineParam  float64 // step multiplier after a rejected step
	DtMin        float64 // lower bound on the step size
	DtMax        float64 // upper bound on the step size
	RefineTol    float64 // error above this rejects the step
	CoarsenTol   float64 // error below this grows the next step
	NewtonMaxIt  int     // max Newton iterations per implicit stage
	NewtonTol    float64 // Newton residual tolerance
}

// SetDefaults fills unset values
func (o *Config) SetDefaults() {
	if o.CoarsenParam == 0 {
		o.CoarsenParam = 1.2
	}
	if o.RefineParam == 0 {
		o.RefineParam = 0.8
	}
	if o.DtMin == 0 {
		o.DtMin = 1e-14
	}
	if o.DtMax == 0 {
		o.DtMax = 1e100
	}
	if o.RefineTol == 0 {
		o.RefineTol = 1e-8
	}
	if o.CoarsenTol == 0 {
		o.CoarsenTol = 1e-12
	}
	if o.NewtonMaxIt == 0 {
		o.NewtonMaxIt = 100
	}
	if o.NewtonTol == 0 {
		o.NewtonTol = 1e-6
	}
}

// scheme kinds
const (
	kindExplicit = iota
	kindEmbedded
	kindImplicit
)

// Tableau holds Butcher coefficients. Bhat is the lower-order weight row of
// embedded pairs.
type Tableau struct {
	Kind int
	A    [][]float64
	B    []float64
	Bhat []float64
	C    []float64
}

// New allocates a Runge-Kutta scheme by method name
func New(method string, cfg *Config) (rk RungeKutta, err error) {
	tab, ok := tableaus[method]
	if !ok {
		return nil, chk.Err("time-stepping method %q is not available in 'tim' database", method)
	}
	if cfg == nil {
		cfg = new(Config)
	}
	cfg.SetDefaults()
	switch tab.Kind {
	case kindExplicit:
		return &Explicit{tab: tab, dtGuess: 0}, nil
	case kindEmbedded:
		return &Embedded{tab: tab, cfg: cfg}, nil
	default:
		return &Implicit{tab: tab, cfg: cfg}, nil
	}
}

// IsEmbedded tells whether a method adapts its own step size
func IsEmbedded(method string) bool {
	tab, ok := tableaus[method]
	return ok && tab.Kind == kindEmbedded
}

// IsImplicit tells whether a method needs the Jacobian-action solve
func IsImplicit(method string) bool {
	tab, ok := tableaus[method]
	return ok && tab.Kind == kindImplicit
}

// sdirk2 diagonal coefficient
var gam = 1.0 - math.Sqrt(2.0)/2.0

// tableaus holds all available methods
var tableaus = map[string]*Tableau{

	"forward_euler": {
		Kind: kindExplicit,
		A:    [][]float64{{}},
		B:    []float64{1},
		C:    []float64{0},
	},

	"rk_third_order": {
		Kind: kindExplicit,
		A:    [][]float64{{}, {0.5}, {-1, 2}},
		B:    []float64{1.0 / 6.0, 2.0 / 3.0, 1.0 / 6.0},
		C:    []float64{0, 0.5, 1},
	},

	"rk_fourth_order": {
		Kind: kindExplicit,
		A:    [][]float64{{}, {0.5}, {0, 0.5}, {0, 0, 1}},
		B:    []float64{1.0 / 6.0, 1.0 / 3.0, 1.0 / 3.0, 1.0 / 6.0},
		C:    []float64{0, 0.5, 0.5, 1},
	},

	"heun_euler": {
		Kind: kindEmbedded,
		A:    [][]float64{{}, {1}},
		B:    []float64{0.5, 0.5},
		Bhat: []float64{1, 0},
		C:    []float64{0, 1},
	},

	"bogacki_shampine": {
		Kind: kindEmbedded,
		A:    [][]float64{{}, {0.5}, {0, 0.75}, {2.0 / 9.0, 1.0 / 3.0, 4.0 / 9.0}},
		B:    []float64{2.0 / 9.0, 1.0 / 3.0, 4.0 / 9.0, 0},
		Bhat: []float64{7.0 / 24.0, 0.25, 1.0 / 3.0, 0.125},
		C:    []float64{0, 0.5, 0.75, 1},
	},

	"dopri": {
		Kind: kindEmbedded,
		A: [][]float64{
			{},
			{1.0 / 5.0},
			{3.0 / 40.0, 9.0 / 40.0},
			{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
			{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
			{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
			{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
		},
		B:    []float64{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0, 0},
		Bhat: []float64{5179.0 / 57600.0, 0, 7571.0 / 16695.0, 393.0 / 640.0, -92097.0 / 339200.0, 187.0 / 2100.0, 1.0 / 40.0},
		C:    []float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1, 1},
	},

	"fehlberg": {
		Kind: kindEmbedded,
		A: [][]float64{
			{},
			{0.25},
			{3.0 / 32.0, 9.0 / 32.0},
			{1932.0 / 2197.0, -7200.0 / 2197.0, 7296.0 / 2197.0},
			{439.0 / 216.0, -8, 3680.0 / 513.0, -845.0 / 4104.0},
			{-8.0 / 27.0, 2, -3544.0 / 2565.0, 1859.0 / 4104.0, -11.0 / 40.0},
		},
		B:    []float64{16.0 / 135.0, 0, 6656.0 / 12825.0, 28561.0 / 56430.0, -9.0 / 50.0, 2.0 / 55.0},
		Bhat: []float64{25.0 / 216.0, 0, 1408.0 / 2565.0, 2197.0 / 4104.0, -1.0 / 5.0, 0},
		C:    []float64{0, 0.25, 3.0 / 8.0, 12.0 / 13.0, 1, 0.5},
	},

	"cash_karp": {
		Kind: kindEmbedded,
		A: [][]float64{
			{},
			{1.0 / 5.0},
			{3.0 / 40.0, 9.0 / 40.0},
			{3.0 / 10.0, -9.0 / 10.0, 6.0 / 5.0},
			{-11.0 / 54.0, 5.0 / 2.0, -70.0 / 27.0, 35.0 / 27.0},
			{1631.0 / 55296.0, 175.0 / 512.0, 575.0 / 13824.0, 44275.0 / 110592.0, 253.0 / 4096.0},
		},
		B:    []float64{37.0 / 378.0, 0, 250.0 / 621.0, 125.0 / 594.0, 0, 512.0 / 1771.0},
		Bhat: []float64{2825.0 / 27648.0, 0, 18575.0 / 48384.0, 13525.0 / 55296.0, 277.0 / 14336.0, 0.25},
		C:    []float64{0, 1.0 / 5.0, 3.0 / 10.0, 3.0 / 5.0, 1, 7.0 / 8.0},
	},

	"backward_euler": {
		Kind: kindImplicit,
		A:    [][]float64{{1}},
		B:    []float64{1},
		C:    []float64{1},
	},

	"implicit_midpoint": {
		Kind: kindImplicit,
		A:    [][]float64{{0.5}},
		B:    []float64{1},
		C:    []float64{0.5},
	},

	"crank_nicolson": {
		Kind: kindImplicit,
		A:    [][]float64{{0, 0}, {0.5, 0.5}},
		B:    []float64{0.5, 0.5},
		C:    []float64{0, 1},
	},

	"sdirk2": {
		Kind: kindImplicit,
		A:    [][]float64{{gam, 0}, {1 - gam, gam}},
		B:    []float64{1 - gam, gam},
		C:    []float64{gam, 1},
	},
}
