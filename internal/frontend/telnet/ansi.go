// Package telnet serves the battle frontend over Telnet with ANSI styling.
package telnet

import (
	"fmt"
	"strings"
)

// ANSI styles used by the battle renderer.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"

	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightCyan   = "\033[96m"
)

// Colorize wraps text in color and a trailing Reset.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf formats its arguments and wraps the result in color.
func Colorf(color, format string, args ...any) string {
	return Colorize(color, fmt.Sprintf(format, args...))
}

// HealthColor picks green, yellow or red for cur out of max.
//
// Postcondition: cur above half is green, above a quarter yellow, otherwise red.
func HealthColor(cur, max int) string {
	switch {
	case max <= 0 || cur*4 <= max:
		return BrightRed
	case cur*2 <= max:
		return BrightYellow
	default:
		return BrightGreen
	}
}

// HealthBar renders a fixed-width bar such as "[#####-----]".
//
// Precondition: width > 0.
// Postcondition: the bar holds exactly width cells between the brackets.
func HealthBar(cur, max, width int) string {
	filled := 0
	if max > 0 && cur > 0 {
		filled = cur * width / max
		if filled == 0 {
			filled = 1
		}
		if filled > width {
			filled = width
		}
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// StripANSI removes CSI "m" sequences so text width can be measured.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			if end := strings.IndexByte(s[i+2:], 'm'); end >= 0 {
				i += end + 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
