// Package ballistics smooths level readings over time: instant attack,
// exponential release, and a peak hold that latches, freezes, then decays.
package ballistics

import (
	"math"
	"time"
)

// Default timing constants.
const (
	DefaultRelease     = 600 * time.Millisecond
	DefaultPeakHold    = 800 * time.Millisecond
	DefaultPeakRelease = 1200 * time.Millisecond
)

// State is the smoothed meter state of one meter instance.
type State struct {
	Value         float64   // smoothed displayed level in dB
	Timestamp     time.Time // time of the last update
	Peak          float64   // peak-hold level in dB
	PeakTimestamp time.Time // time the current peak was latched; its decay is measured from here
}

// Params holds the ballistics time constants.
type Params struct {
	Release     time.Duration // release time constant of the displayed value
	PeakHold    time.Duration // how long a latched peak stays frozen
	PeakRelease time.Duration // decay time constant of the peak after the hold
}

// DefaultParams returns the standard meter timing.
func DefaultParams() Params {
	return Params{
		Release:     DefaultRelease,
		PeakHold:    DefaultPeakHold,
		PeakRelease: DefaultPeakRelease,
	}
}

// Step advances prev by one raw reading taken at now. A nil prev starts a
// new state at raw. raw must be finite.
func Step(prev *State, raw float64, now time.Time, p Params) State {
	if prev == nil {
		return State{Value: raw, Timestamp: now, Peak: raw, PeakTimestamp: now}
	}

	next := State{
		Value:         raw,
		Timestamp:     now,
		Peak:          prev.Peak,
		PeakTimestamp: prev.PeakTimestamp,
	}

	// Fast rise, smooth fall.
	if raw < prev.Value {
		dt := max(now.Sub(prev.Timestamp), 0)
		next.Value = raw + (prev.Value-raw)*decay(dt, p.Release)
	}

	// The peak follows raw readings, not the smoothed value.
	if raw >= prev.Peak {
		next.Peak = raw
		next.PeakTimestamp = now
		return next
	}

	// The exponent covers all time since the hold ended, applied to the
	// already decayed peak, so frequent updates pull the peak down faster.
	if held := now.Sub(prev.PeakTimestamp); held > p.PeakHold {
		next.Peak = raw + (prev.Peak-raw)*decay(held-p.PeakHold, p.PeakRelease)
	}
	return next
}

// decay returns exp(-dt/tau) with both durations measured in milliseconds.
func decay(dt, tau time.Duration) float64 {
	if tau <= 0 {
		return 0
	}
	ms := float64(dt) / float64(time.Millisecond)
	return math.Exp(-ms / (float64(tau) / float64(time.Millisecond)))
}
