package numerator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	corenumerator "cuentas/internal/core/numerator"
)

func TestBuildKey(t *testing.T) {
	s := New(nil)
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  corenumerator.Config
		want string
	}{
		{"never resets", corenumerator.Config{Prefix: "CXC", ResetPeriod: "never"}, "CXC"},
		{"yearly", corenumerator.Config{Prefix: "CXC", ResetPeriod: "year"}, "CXC_2026"},
		{"monthly", corenumerator.Config{Prefix: "CXP", ResetPeriod: "month"}, "CXP_2026_03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.buildKey(tt.cfg, period))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	s := New(nil)
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	withYear := corenumerator.DefaultConfig("CXC")
	assert.Equal(t, "CXC-2026-00042", s.formatNumber(withYear, period, 42))

	noYear := corenumerator.Config{Prefix: "CXP", PadWidth: 3}
	assert.Equal(t, "CXP-042", s.formatNumber(noYear, period, 42))
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, int64(42), ParseNumber("CXC-2026-00042"))
	assert.Equal(t, int64(7), ParseNumber("CXP-00007"))
	assert.Equal(t, int64(-1), ParseNumber("not-a-number"))
}
