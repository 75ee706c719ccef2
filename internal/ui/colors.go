package ui

// Color accessors return the escape sequence of the active theme for a role.
// Call sites pair each one with ColorReset.

func ColorReset() string     { return GetCurrentTheme().Reset }
func ColorRed() string       { return GetCurrentTheme().Error }
func ColorGreen() string     { return GetCurrentTheme().Success }
func ColorYellow() string    { return GetCurrentTheme().Warning }
func ColorMagenta() string   { return GetCurrentTheme().Info }
func ColorCyan() string      { return GetCurrentTheme().Primary }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }

// Colorize wraps s in the escape sequence returned by color.
func Colorize(color func() string, s string) string {
	if c := color(); c != "" {
		return c + s + ColorReset()
	}
	return s
}

// ErrorColors adapts the active theme to apperrors.ColorProvider.
type ErrorColors struct{}

func (ErrorColors) Red() string    { return ColorRed() }
func (ErrorColors) Yellow() string { return ColorYellow() }
func (ErrorColors) Reset() string  { return ColorReset() }
