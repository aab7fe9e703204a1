// Package testutils provides helpers shared by the tests of the module.
package testutils

import (
	"testing"

	"github.com/benoitkugler/printlayout/logger"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func AssertEqual(t *testing.T, got, exp interface{}) {
	t.Helper()
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Fatalf("unexpected value (-want +got):\n%s", diff)
	}
}

// CapturedLogs collects the warnings emitted while it is active.
type CapturedLogs struct {
	logs    *observer.ObservedLogs
	restore func()
}

// CaptureLogs starts capturing the warnings. It must be closed by
// calling one of its methods, usually with defer.
func CaptureLogs() *CapturedLogs {
	core, logs := observer.New(zapcore.WarnLevel)
	return &CapturedLogs{logs: logs, restore: logger.ReplaceCore(core)}
}

// Logs stops capturing and returns the messages.
func (c *CapturedLogs) Logs() []string {
	c.restore()
	var out []string
	for _, entry := range c.logs.All() {
		out = append(out, entry.Message)
	}
	return out
}

func (c *CapturedLogs) AssertNoLogs(t *testing.T) {
	t.Helper()
	if l := c.Logs(); len(l) != 0 {
		t.Fatalf("expected no logs, got %d:\n%v", len(l), l)
	}
}

// CheckLogs asserts that exactly the given number of warnings has been emitted.
func (c *CapturedLogs) CheckLogs(t *testing.T, expected int) {
	t.Helper()
	if l := c.Logs(); len(l) != expected {
		t.Fatalf("expected %d logs, got %d:\n%v", expected, len(l), l)
	}
}
