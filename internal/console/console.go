// Package console binds the console global (log/info/warn/error/debug)
// every embedded script expects, per SPEC_FULL.md §1's logging section:
// script output is routed through the same logrus.Logger as the rest of
// the runtime's structured logging, so JS-originated lines get the same
// TTY-aware handling (consoleWriter, level filtering) as Go-originated
// ones instead of going straight to stdout/stderr.
package console

import (
	"strings"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"
)

// Console binds the console global to one or more goja.Runtime instances.
type Console struct {
	logger logrus.FieldLogger
}

// New returns a Console that logs through logger.
func New(logger logrus.FieldLogger) *Console {
	return &Console{logger: logger}
}

// Install defines the console global on rt.
func (c *Console) Install(rt *goja.Runtime) error {
	obj := rt.NewObject()
	_ = obj.Set("log", c.logFn(rt, logrus.InfoLevel))
	_ = obj.Set("info", c.logFn(rt, logrus.InfoLevel))
	_ = obj.Set("debug", c.logFn(rt, logrus.DebugLevel))
	_ = obj.Set("warn", c.logFn(rt, logrus.WarnLevel))
	_ = obj.Set("error", c.logFn(rt, logrus.ErrorLevel))
	return rt.Set("console", obj)
}

func (c *Console) logFn(rt *goja.Runtime, level logrus.Level) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, formatArg(arg))
		}
		line := strings.Join(parts, " ")
		switch level {
		case logrus.DebugLevel:
			c.logger.Debug(line)
		case logrus.WarnLevel:
			c.logger.Warn(line)
		case logrus.ErrorLevel:
			c.logger.Error(line)
		default:
			c.logger.Info(line)
		}
		return goja.Undefined()
	}
}

// formatArg renders a single console.* argument. goja's own Value.String()
// already stringifies via the value's toString, which is all the surface
// area this runtime needs - no util.inspect-style deep object printing.
func formatArg(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
