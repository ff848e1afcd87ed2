package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects output for the duration of a test.
func capture(t *testing.T, v bool) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetVerbose(v)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebugInfoWarn_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Debug("query %q", "offer letter")
	Info("sources: %d", 2)
	Warn("jira failed: %v", "timeout")

	out := buf.String()
	assert.Contains(t, out, `[DEBUG] query "offer letter"`)
	assert.Contains(t, out, "[INFO] sources: 2")
	assert.Contains(t, out, "[WARN] jira failed: timeout")
}

func TestDebugInfoWarn_WhenQuiet(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("Hidden")

	assert.Empty(t, buf.String())
}

func TestError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Error("aggregator panic: %v", "nil map")

	assert.Equal(t, "[ERROR] aggregator panic: nil map\n", buf.String())
}

func TestSection_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Section("Unified Search")

	assert.Equal(t, "\n=== Unified Search ===\n", buf.String())
}

func TestFor_TagsComponent(t *testing.T) {
	buf := capture(t, true)

	log := For("jira")
	log.Debug("JQL: %s", "text ~ \"bug\"")
	log.Error("status %d", 401)

	assert.Equal(t, "jira", log.Component())
	assert.Contains(t, buf.String(), "[DEBUG] [jira] JQL: text ~ \"bug\"\n")
	assert.Contains(t, buf.String(), "[ERROR] [jira] status 401\n")
}

func TestFor_QuietSuppressesAllButErrors(t *testing.T) {
	buf := capture(t, false)

	log := For("notion")
	log.Debug("a")
	log.Info("b")
	log.Warn("c")
	log.Error("d")

	assert.Equal(t, "[ERROR] [notion] d\n", buf.String())
}

func TestZeroLogger_NoTag(t *testing.T) {
	buf := capture(t, true)

	var log Logger
	log.Info("plain")

	assert.Equal(t, "[INFO] plain\n", buf.String())
}
