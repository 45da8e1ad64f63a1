package tuning

import (
	"testing"

	"github.com/san-kum/pidlab/internal/control"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGain(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"0.1", 0.1, true},
		{" 2 ", 2, true},
		{"-0.5", -0.5, true},
		{"1e-3", 0.001, true},
		{"", 0, false},
		{"0.1.2", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseGain(tt.text)
		assert.Equal(t, tt.ok, ok, "ParseGain(%q)", tt.text)
		if tt.ok {
			assert.Equal(t, tt.want, got, "ParseGain(%q)", tt.text)
		}
	}
}

func TestFields_MalformedTextKeepsLastValue(t *testing.T) {
	// GIVEN
	f := NewFields(control.Gains{Kp: 0.1, Ki: 0.01, Kd: 0.2})

	// WHEN
	require.NoError(t, f.SetText("kp", "0.3"))
	g := f.Resolve()

	// THEN
	assert.Equal(t, 0.3, g.Kp)

	// WHEN
	require.NoError(t, f.SetText("kp", "0.3x"))
	require.NoError(t, f.SetText("kd", ""))
	g = f.Resolve()

	// THEN
	assert.Equal(t, control.Gains{Kp: 0.3, Ki: 0.01, Kd: 0.2}, g)
	assert.False(t, f.Kp.Valid())
	text, err := f.Text("kp")
	require.NoError(t, err)
	assert.Equal(t, "0.3x", text, "invalid text stays editable")

	// WHEN
	require.NoError(t, f.SetText("kp", "0.35"))

	// THEN
	assert.Equal(t, 0.35, f.Resolve().Kp)
}

func TestFields_UnknownName(t *testing.T) {
	f := NewFields(control.Gains{})
	assert.ErrorIs(t, f.SetText("kz", "1"), control.ErrUnknownGain)
	_, err := f.Text("kz")
	assert.ErrorIs(t, err, control.ErrUnknownGain)
}

func TestFields_CopiesAreIndependent(t *testing.T) {
	a := NewFields(control.Gains{Kp: 1})
	b := a
	require.NoError(t, b.SetText("kp", "2"))
	b.Resolve()

	assert.Equal(t, 1.0, a.Gains().Kp)
	assert.Equal(t, "1", a.Kp.Text)
	assert.Equal(t, 2.0, b.Gains().Kp)
}
