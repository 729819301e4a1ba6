package logger

import (
	"bytes"
	"log"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestEnvLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		verbose   bool
		expectLog bool
	}{
		{
			name:      "logs when SENSORDASH_DEBUG is set",
			envValue:  "1",
			expectLog: true,
		},
		{
			name:      "logs when verbose is on",
			verbose:   true,
			expectLog: true,
		},
		{
			name:      "silent otherwise",
			expectLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			t.Setenv(DebugEnv, tt.envValue)
			SetVerbose(tt.verbose)
			defer SetVerbose(false)

			NewEnvLogger("[test]").Debug("value=%d", 42)

			if tt.expectLog {
				assert.Contains(t, buf.String(), "[test] DEBUG: value=42")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestEnvLogger_Levels(t *testing.T) {
	buf := captureLog(t)
	l := NewEnvLogger("[poller]")

	l.Info("tick %d", 1)
	l.Warn("slow fetch")
	l.Error("fetch failed: %s", "timeout")

	out := buf.String()
	assert.Contains(t, out, "[poller] tick 1")
	assert.Contains(t, out, "[poller] WARN: slow fetch")
	assert.Contains(t, out, "[poller] ERROR: fetch failed: timeout")
}

func TestNoop(t *testing.T) {
	buf := captureLog(t)
	l := Noop()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	assert.Empty(t, buf.String())
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Info("hello %s", "world")
	l.Error("bad %d", 7)

	msgs := l.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, LogMessage{Level: "info", Message: "hello world"}, msgs[0])
	assert.Equal(t, LogMessage{Level: "error", Message: "bad 7"}, msgs[1])
	assert.True(t, l.HasLevel("error"))
	assert.False(t, l.HasLevel("warn"))

	l.Clear()
	assert.Empty(t, l.Messages())
}

func TestBufferLogger_Concurrent(t *testing.T) {
	l := NewBufferLogger()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Warn("w")
		}()
	}
	wg.Wait()
	assert.Len(t, l.Messages(), 20)
}

func TestDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("routed")

	msgs := buf.Messages()
	require.Len(t, msgs, 1)
	assert.True(t, strings.Contains(msgs[0].Message, "routed"))
}
