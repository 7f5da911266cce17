package config

//go:generate go tool go-enum --marshal --nocase --names

// How converted elements reach the output.
// ENUM(batch, incremental)
type SinkMode int

// Incremental sink writes every element as soon as worker completes it.
func (s SinkMode) Incremental() bool {
	return s == SinkModeIncremental
}
