package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{200, 200},
		{60.004, 60},
		{1.005, 1.01},
		{-2.345, -2.35},
		{0.1 + 0.2, 0.3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundMoney(tt.in), "RoundMoney(%v)", tt.in)
	}
}

func TestRoundMoneyPtr(t *testing.T) {
	assert.Nil(t, RoundMoneyPtr(nil))
	v := 12.345
	got := RoundMoneyPtr(&v)
	if assert.NotNil(t, got) {
		assert.Equal(t, 12.35, *got)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,234.56", FormatMoney(1234.56, "USD"))
	assert.Equal(t, "$200.00", FormatMoney(200, ""))
	assert.Equal(t, "$0.00", FormatMoney(0, "NOPE"))
}
