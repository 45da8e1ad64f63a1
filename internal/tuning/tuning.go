// Package tuning holds the operator-editable gain text.
//
// Gains are entered as free text and re-read on every tick. Text that does
// not parse as a finite number is ignored for that tick and the last valid
// value stays in effect.
package tuning

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/pidlab/internal/control"
)

// Field is one gain's raw text and its last valid value.
type Field struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

func NewField(v float64) Field {
	return Field{Text: FormatGain(v), Value: v}
}

// Resolve parses the current text and returns the value in effect.
func (f *Field) Resolve() float64 {
	if v, ok := ParseGain(f.Text); ok {
		f.Value = v
	}
	return f.Value
}

// Valid reports whether the current text parses.
func (f Field) Valid() bool {
	_, ok := ParseGain(f.Text)
	return ok
}

// Fields holds the text for all three gains. It is a value type so that
// copies of a simulation state never share edits.
type Fields struct {
	Kp Field `json:"kp"`
	Ki Field `json:"ki"`
	Kd Field `json:"kd"`
}

func NewFields(g control.Gains) Fields {
	return Fields{Kp: NewField(g.Kp), Ki: NewField(g.Ki), Kd: NewField(g.Kd)}
}

func (f *Fields) field(name string) (*Field, error) {
	switch strings.ToLower(name) {
	case control.GainKp:
		return &f.Kp, nil
	case control.GainKi:
		return &f.Ki, nil
	case control.GainKd:
		return &f.Kd, nil
	}
	return nil, fmt.Errorf("%w: %q", control.ErrUnknownGain, name)
}

// SetText replaces the text of the named gain. The text is not validated
// here; an invalid entry simply has no effect until it is corrected.
func (f *Fields) SetText(name, text string) error {
	field, err := f.field(name)
	if err != nil {
		return err
	}
	field.Text = text
	return nil
}

// Text returns the raw text of the named gain.
func (f Fields) Text(name string) (string, error) {
	field, err := f.field(name)
	if err != nil {
		return "", err
	}
	return field.Text, nil
}

// Resolve re-reads all three texts and returns the gains in effect.
func (f *Fields) Resolve() control.Gains {
	return control.Gains{
		Kp: f.Kp.Resolve(),
		Ki: f.Ki.Resolve(),
		Kd: f.Kd.Resolve(),
	}
}

// Gains returns the last resolved gains without re-reading the text.
func (f Fields) Gains() control.Gains {
	return control.Gains{Kp: f.Kp.Value, Ki: f.Ki.Value, Kd: f.Kd.Value}
}

// ParseGain parses a gain entered as text. Surrounding whitespace is allowed;
// NaN and infinities are rejected.
func ParseGain(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func FormatGain(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
