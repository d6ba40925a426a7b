// Package guard finds argument-validation guards in a callable body and
// synthesizes argument values that make each guard fire.
//
// The package is pure: nothing here mutates its input or keeps state between
// calls, so a single Assembler may be shared by any number of goroutines.
package guard

import (
	"strings"

	"go.uber.org/zap"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultNullAssertion     = "requireNonNull"
	DefaultArgumentException = "IllegalArgumentException"
	DefaultNullFailure       = "NullPointerException"
)

// Options configures detection.
type Options struct {
	// NullAssertions are the method names treated as "require non-null".
	NullAssertions []string

	// ArgumentExceptions are exception type names whose construction inside a
	// throw marks an if statement as a guard. Matched by simple name.
	ArgumentExceptions []string

	// NullFailure is the failure kind reported for null-assertion calls.
	NullFailure string

	// Logger receives debug output about skipped guards. Nil disables it.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if len(o.NullAssertions) == 0 {
		o.NullAssertions = []string{DefaultNullAssertion}
	}
	if len(o.ArgumentExceptions) == 0 {
		o.ArgumentExceptions = []string{DefaultArgumentException}
	}
	if o.NullFailure == "" {
		o.NullFailure = DefaultNullFailure
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// simpleTypeName strips package qualification and type arguments:
// "java.lang.IllegalArgumentException" -> "IllegalArgumentException".
func simpleTypeName(s string) string {
	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
