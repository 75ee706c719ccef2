// Package logging provides the structured logging interface used across
// numkit. Components depend on Logger; the default backend is zerolog and a
// standard library adapter is available for hosts that embed the binding
// layer and already own a *log.Logger.
package logging
