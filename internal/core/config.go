package core

// RuntimeConfig holds presentation settings for interactive playback.
// The simulation itself never reads it: episodes are driven by ticks, and
// the frame rate only controls how fast ticks are shown.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	FPS     int   // Rendered ticks per second (default 60)
	Seed    int64 // Episode seed; 0 means derive one from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		FPS:     60,
		Seed:    0,
	}
}

// Valid FPS bounds for playback.
const (
	MinFPS = 5
	MaxFPS = 240
)

// ClampFPS keeps a requested frame rate within the supported range.
func ClampFPS(fps int) int {
	return Clamp(fps, MinFPS, MaxFPS)
}
