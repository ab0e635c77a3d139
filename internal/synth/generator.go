// Package synth generates the synthetic retail-demand series the model is
// trained on, and the simulated future conditions a forecast runs against.
package synth

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/your-org/demand-forecast/internal/series"
)

// ErrInvalidRange is returned when the requested end date is before the start.
var ErrInvalidRange = errors.New("end date is before start date")

// DefaultStart is the first day of the generated history.
var DefaultStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	priceMean     = 10.0
	priceStd      = 2.0
	promotionRate = 0.2
	holidayRate   = 0.1
	tempBase      = 20.0
	tempAmplitude = 10.0
	tempNoiseStd  = 2.0

	demandBase      = 100.0
	demandAmplitude = 20.0
	demandNoiseStd  = 5.0
	priceEffect     = -2.0
	promotionEffect = 15.0
	holidayEffect   = -10.0
	tempEffect      = 0.5
)

// Generator draws synthetic observations. It is safe for concurrent use.
type Generator struct {
	mu        sync.Mutex
	price     distuv.Normal
	promotion distuv.Bernoulli
	holiday   distuv.Bernoulli
	tempNoise distuv.Normal
	noise     distuv.Normal
}

// Option configures a Generator.
type Option func(*options)

type options struct {
	seed   uint64
	seeded bool
}

// WithSeed makes the generator reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// New creates a Generator. Without WithSeed the output differs on every run.
func New(opts ...Option) *Generator {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var src rand.Source
	if o.seeded {
		src = rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15)
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{
		price:     distuv.Normal{Mu: priceMean, Sigma: priceStd, Src: src},
		promotion: distuv.Bernoulli{P: promotionRate, Src: src},
		holiday:   distuv.Bernoulli{P: holidayRate, Src: src},
		tempNoise: distuv.Normal{Mu: 0, Sigma: tempNoiseStd, Src: src},
		noise:     distuv.Normal{Mu: 0, Sigma: demandNoiseStd, Src: src},
	}
}

// Historical generates one observation per day from start through end,
// demand included.
func (g *Generator) Historical(start, end time.Time) (series.Series, error) {
	dates := series.DateRange(start, end)
	if dates == nil {
		return nil, ErrInvalidRange
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(series.Series, len(dates))
	for i, d := range dates {
		obs := g.drivers(d)
		obs.Demand = math.RoundToEven(
			seasonal(d, demandBase, demandAmplitude) +
				priceEffect*obs.Price +
				promotionEffect*float64(obs.Promotion) +
				holidayEffect*float64(obs.Holiday) +
				tempEffect*obs.Temperature +
				g.noise.Rand())
		out[i] = obs
	}
	return out, nil
}

// Future generates n days of exogenous drivers starting the day after after.
// Demand is left at zero for the forecaster to fill.
func (g *Generator) Future(after time.Time, n int) series.Series {
	if n <= 0 {
		return series.Series{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(series.Series, n)
	d := series.NextDay(after)
	for i := range out {
		out[i] = g.drivers(d)
		d = d.AddDate(0, 0, 1)
	}
	return out
}

// drivers draws the exogenous columns of one day. Callers hold g.mu.
func (g *Generator) drivers(d time.Time) series.Observation {
	return series.Observation{
		Date:        d,
		Price:       round2(g.price.Rand()),
		Promotion:   int(g.promotion.Rand()),
		Holiday:     int(g.holiday.Rand()),
		Temperature: round2(seasonal(d, tempBase, tempAmplitude) + g.tempNoise.Rand()),
	}
}

// seasonal is base + amplitude*sin(2π·dayOfYear/365).
func seasonal(d time.Time, base, amplitude float64) float64 {
	return base + amplitude*math.Sin(2*math.Pi*float64(d.YearDay())/365)
}

// round2 rounds half to even at two decimals.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).RoundBank(2).InexactFloat64()
}
