// Package numerator provides domain contracts for document auto-numbering.
package numerator

// Strategy selects how numbers are drawn.
type Strategy int

const (
	// StrategyStrict round-trips to the database per number. Slower but
	// gapless while the allocation commits, which is what accounting
	// documents want.
	StrategyStrict Strategy = iota

	// StrategyCached reserves blocks of numbers in memory. Fast, but a
	// restart abandons the rest of the block. Fine for internal
	// references.
	StrategyCached
)

// Options tunes a single allocation.
type Options struct {
	Strategy Strategy

	// RangeSize is the block size for StrategyCached; 0 means 50.
	RangeSize int64
}

// DefaultOptions is strict allocation.
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// Config describes one numbering sequence.
type Config struct {
	// Prefix such as "CXC" for receivables or "CXP" for payables.
	Prefix string

	// IncludeYear puts the year between prefix and counter.
	IncludeYear bool

	// PadWidth is the zero-padded counter width; 0 means 5.
	PadWidth int

	// ResetPeriod restarts the counter: "year", "month" or "never".
	ResetPeriod string
}

// DefaultConfig is a yearly sequence, CXC-2026-00001 style.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}
