package ui

import (
	"os"
	"strconv"
	"sync/atomic"
)

// Theme holds the ANSI escape sequence emitted for each output role. The
// zero value prints no escapes at all.
type Theme struct {
	Name string

	Primary   string // headers, symbol names
	Secondary string // dimmed detail
	Success   string // results
	Warning   string // usage hints
	Error     string // failures
	Info      string // handles, durations

	Bold      string
	Underline string
	Reset     string
}

// fg256 returns the escape sequence selecting color n of the 256-color
// palette as foreground.
func fg256(n int) string { return "\033[38;5;" + strconv.Itoa(n) + "m" }

func paletteTheme(name string, primary, secondary, success, warning, failure, info int) Theme {
	return Theme{
		Name:      name,
		Primary:   fg256(primary),
		Secondary: fg256(secondary),
		Success:   fg256(success),
		Warning:   fg256(warning),
		Error:     fg256(failure),
		Info:      fg256(info),
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}
}

var (
	// DarkTheme suits dark terminal backgrounds and is the default.
	DarkTheme = paletteTheme("dark", 39, 245, 82, 220, 196, 141)
	// LightTheme suits light terminal backgrounds.
	LightTheme = paletteTheme("light", 27, 240, 28, 130, 124, 54)
	// NoColorTheme is selected by --no-color or NO_COLOR.
	NoColorTheme = Theme{Name: "none"}
)

// ThemeEnv selects the theme by name when colors are enabled.
const ThemeEnv = "NUMKIT_THEME"

var active atomic.Pointer[Theme]

func init() { SetCurrentTheme(DarkTheme) }

// GetCurrentTheme returns the active theme. Safe for concurrent use.
func GetCurrentTheme() Theme { return *active.Load() }

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) { active.Store(&t) }

// SetTheme activates a theme by name ("dark", "light", "none"). Unknown
// names fall back to dark.
func SetTheme(name string) { SetCurrentTheme(themeByName(name)) }

func themeByName(name string) Theme {
	for _, t := range []Theme{DarkTheme, LightTheme, NoColorTheme} {
		if t.Name == name {
			return t
		}
	}
	return DarkTheme
}

// InitTheme picks the theme at startup. noColor and a NO_COLOR variable
// (https://no-color.org/) both disable colors; otherwise NUMKIT_THEME
// names the palette.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetTheme(os.Getenv(ThemeEnv))
}

// ColorsEnabled reports whether the active theme emits escape codes.
func ColorsEnabled() bool { return GetCurrentTheme().Name != NoColorTheme.Name }
