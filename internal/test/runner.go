package itst

import (
	"strings"
	"testing"
	"time"
)

var subTestName = strings.NewReplacer(" ", "_")

// matches reports if the running sub test "<name>.<suffix>" is one of
// the testNames. A name without a suffix matches every suffix.
func matches(t *testing.T, testNames []string) bool {
	parts := strings.SplitN(t.Name(), "/", 2)
	if len(parts) < 2 {
		return false
	}

	have := parts[1]
	suffix := ""
	if idx := strings.LastIndex(have, "."); idx >= 0 {
		suffix = have[idx+1:]
	}

	for _, testName := range testNames {
		want := subTestName.Replace(testName)
		if !strings.Contains(want, ".") {
			want += "." + suffix
		}
		if have == want {
			return true
		}
	}
	return false
}

// RunTest only runs the named sub tests, an empty name or "*" runs them all.
func RunTest(testNames ...string) func(*testing.T) {
	return func(t *testing.T) {
		t.Helper()

		for _, testName := range testNames {
			if testName == "" || testName == "*" {
				return
			}
		}
		if !matches(t, testNames) {
			t.SkipNow()
		}
	}
}

// SkipTest skips the named sub tests.
func SkipTest(testNames ...string) func(*testing.T) {
	return func(t *testing.T) {
		t.Helper()

		if matches(t, testNames) {
			t.SkipNow()
		}
	}
}

// Receive waits for a value on ch, failing the test after d.
func Receive[T any](t *testing.T, ch <-chan T, d time.Duration) (v T) {
	t.Helper()

	select {
	case v = <-ch:
	case <-time.After(d):
		t.Fatalf("timed out after %s waiting for a %T", d, v)
	}
	return v
}
