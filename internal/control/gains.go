package control

import (
	"fmt"
	"strings"
)

// Gain names accepted by Gains.Set and reported by Gains.Params.
const (
	GainKp = "kp"
	GainKi = "ki"
	GainKd = "kd"
)

// GainNames lists the gains in display order.
var GainNames = []string{GainKp, GainKi, GainKd}

// Gains weights the proportional, integral and derivative terms. Negative
// values are accepted and make the loop diverge.
type Gains struct {
	Kp float64 `json:"kp" yaml:"kp"`
	Ki float64 `json:"ki" yaml:"ki"`
	Kd float64 `json:"kd" yaml:"kd"`
}

// GetParams returns tunable parameters for live adjustment
func (g Gains) GetParams() map[string]float64 {
	return map[string]float64{
		GainKp: g.Kp,
		GainKi: g.Ki,
		GainKd: g.Kd,
	}
}

// Get returns the named gain.
func (g Gains) Get(name string) (float64, error) {
	switch strings.ToLower(name) {
	case GainKp:
		return g.Kp, nil
	case GainKi:
		return g.Ki, nil
	case GainKd:
		return g.Kd, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGain, name)
}

// SetParam adjusts a single gain by name.
func (g *Gains) SetParam(name string, value float64) error {
	switch strings.ToLower(name) {
	case GainKp:
		g.Kp = value
	case GainKi:
		g.Ki = value
	case GainKd:
		g.Kd = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGain, name)
	}
	return nil
}

func (g Gains) String() string {
	return fmt.Sprintf("Kp=%g Ki=%g Kd=%g", g.Kp, g.Ki, g.Kd)
}
