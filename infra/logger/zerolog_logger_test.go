package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter("solver", &buf)
	l.Debugw("value iteration", map[string]any{"iteration": 10, "distance": 0.5})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "solver", line["component"])
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "value iteration", line["message"])
	assert.Equal(t, 10.0, line["iteration"])
	assert.Equal(t, 0.5, line["distance"])
}

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	require.NoError(t, SetLevel("warn"))
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter("solver", &buf)
	l.Infof("hidden")
	l.Warnf("shown")
	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, "shown"))

	assert.Error(t, SetLevel("loud"))
}
