package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightCyan
	ColorOrange
	ColorGray
)

// Playfield roles. The renderer only knows about Color values; these
// names keep drawing code readable.
const (
	ColorAgent         = ColorBrightYellow
	ColorAgentShielded = ColorBrightCyan
	ColorObstacle      = ColorGreen
	ColorObstacleEdge  = ColorBrightGreen
	ColorPowerUp       = ColorMagenta
	ColorHUD           = ColorWhite
	ColorBorder        = ColorGray
	ColorAlert         = ColorRed
)
