package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceInt(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int
	}{
		{name: "plain", input: "762", want: 762},
		{name: "thousands comma", input: "1,234", want: 1234},
		{name: "thousands comma large", input: "5,714", want: 5714},
		{name: "thousands space", input: "4 256", want: 4256},
		{name: "nbsp padding", input: " 714 ", want: 714},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CoerceInt(tc.input)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, *got)
		})
	}
}

func TestCoerceIntSentinels(t *testing.T) {
	for _, input := range []string{"AL", "NL", "", "--", "1894*", "3.5"} {
		assert.Nil(t, CoerceInt(input), "input %q", input)
	}
}

func TestCoerceFloat(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{input: ".366", want: 0.366},
		{input: "0.440", want: 0.44},
		{input: " .4235 ", want: 0.4235},
		{input: "1,234.5", want: 1234.5},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got := CoerceFloat(tc.input)
			require.NotNil(t, got)
			assert.InDelta(t, tc.want, *got, 1e-9)
		})
	}

	assert.Nil(t, CoerceFloat("AL"))
	assert.Nil(t, CoerceFloat(""))
}

func TestCoerceFloatRejectsNonFinite(t *testing.T) {
	for _, input := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity", "0x1p-2", "1e999"} {
		t.Run(input, func(t *testing.T) {
			assert.Nil(t, CoerceFloat(input))
		})
	}
}

func TestNormalizeSpaces(t *testing.T) {
	assert.Equal(t, "Ty Cobb", NormalizeSpaces("  Ty \n Cobb "))
}
