package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"
)

// Use these when interacting with fs and writing to terminal, makes a
// command testable.
var defaultFs = afero.NewOsFs()
var defaultWriter io.Writer = os.Stdout

// must panics if the given error is not nil. Used for setup code where a
// failure can only mean a programming error (e.g. a flag definition typo).
func must(err error) {
	if err != nil {
		panic(err)
	}
}

func getNullBool(flags *pflag.FlagSet, key string) null.Bool {
	v, err := flags.GetBool(key)
	if err != nil {
		panic(err)
	}
	return null.NewBool(v, flags.Changed(key))
}

func getNullString(flags *pflag.FlagSet, key string) null.String {
	v, err := flags.GetString(key)
	if err != nil {
		panic(err)
	}
	return null.NewString(v, flags.Changed(key))
}

func exactArgsWithMsg(n int, msg string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("accepts %d arg(s), received %d: %s", n, len(args), msg)
		}
		return nil
	}
}

// fprintf panics when there's an error writing to the supplied io.Writer -
// stdout/stderr failing to accept a write means something is badly wrong
// with the process' own file descriptors, not something callers should be
// asked to handle case by case.
func fprintf(w io.Writer, format string, a ...interface{}) (n int) {
	n, err := fmt.Fprintf(w, format, a...)
	if err != nil {
		panic(err.Error())
	}
	return n
}

// consoleWriter wraps the real stdout/stderr so that writes use
// colorable.NewColorable (Windows ANSI translation) while still exposing
// whether the underlying descriptor is a terminal, guarded by a mutex
// shared between stdout and stderr so interleaved writes from the logger
// and from cobra's own usage output don't tear.
type consoleWriter struct {
	rawOut   io.Writer
	out      io.Writer
	isTTY    bool
	mutex    *sync.Mutex
	lastChar byte
}

func newConsoleWriter(rawOut *os.File, isTTY bool, mutex *sync.Mutex) *consoleWriter {
	return &consoleWriter{
		rawOut: rawOut,
		out:    colorable.NewColorable(rawOut),
		isTTY:  isTTY,
		mutex:  mutex,
	}
}

func (w *consoleWriter) Write(p []byte) (int, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	n, err := w.out.Write(p)
	if n > 0 {
		w.lastChar = p[n-1]
	}
	return n, err
}
