package output

import (
	"os"

	"github.com/muesli/termenv"
)

// IsTerminal reports whether stdout is a character device.
func IsTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) == os.ModeCharDevice
}

// SupportsColor reports whether stdout should receive colored output.
// NO_COLOR disables color; otherwise termenv's profile detection decides.
func SupportsColor() bool {
	if termenv.EnvNoColor() {
		return false
	}
	if !IsTerminal() {
		return false
	}
	return termenv.NewOutput(os.Stdout).EnvColorProfile() != termenv.Ascii
}
