package cli

import (
	"github.com/fatih/color"
)

var (
	keyColor    = color.New(color.FgBlue)
	stringColor = color.New(color.FgGreen)
	boolColor   = color.New(color.FgYellow)
	nullColor   = color.New(color.FgHiBlack)
	numberColor = color.New(color.FgMagenta)

	Title = color.New(color.FgCyan, color.Bold)
	Dim   = color.New(color.FgHiBlack)
)

// Enabled reports whether output should carry ANSI colors.
// fatih/color already honours NO_COLOR and non-tty stdout.
func Enabled() bool {
	return !color.NoColor
}

func CheckMark() string {
	return color.GreenString("✔")
}

func Arrow() string {
	return color.BlueString("➜")
}

func CrossMark() string {
	return color.RedString("✘")
}
