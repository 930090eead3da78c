package console

import (
	"bytes"
	"testing"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *logrus.Logger {
	return &logrus.Logger{
		Out:       buf,
		Formatter: &logrus.TextFormatter{DisableTimestamp: true},
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.DebugLevel,
	}
}

func TestConsoleLogJoinsArguments(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	rt := goja.New()
	require.NoError(t, New(newTestLogger(&buf)).Install(rt))

	_, err := rt.RunString(`console.log('answer', 42, true)`)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "answer 42 true")
}

func TestConsoleWarnAndErrorUseDistinctLevels(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	rt := goja.New()
	require.NoError(t, New(newTestLogger(&buf)).Install(rt))

	_, err := rt.RunString(`console.warn('careful'); console.error('boom')`)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, "msg=careful")
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "msg=boom")
}

func TestConsoleLogUndefinedAndNull(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	rt := goja.New()
	require.NoError(t, New(newTestLogger(&buf)).Install(rt))

	_, err := rt.RunString(`console.log(undefined, null)`)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "undefined null")
}
