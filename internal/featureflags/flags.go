package featureflags

import (
	"os"
	"strings"
)

// Flag names a boolean toggle read from FLAG_<NAME>
type Flag string

const (
	// PermissiveMessages skips receiver and listing existence checks on send
	PermissiveMessages Flag = "permissive_messages"
)

// All lists every known flag, in the order they are reported
var All = []Flag{PermissiveMessages}

// Env is the environment variable that controls f
func (f Flag) Env() string {
	return "FLAG_" + strings.ToUpper(string(f))
}

// Enabled reports whether f is switched on. Accepted values are 1, true, yes
// and on, case-insensitive; anything else, including unset, is off.
func (f Flag) Enabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(f.Env()))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Snapshot returns the current state of every known flag keyed by name
func Snapshot() map[string]bool {
	out := make(map[string]bool, len(All))
	for _, f := range All {
		out[string(f)] = f.Enabled()
	}
	return out
}
