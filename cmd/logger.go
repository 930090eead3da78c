package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// rawFormatter prints only the message, no level/time/field decoration -
// useful for `--log-format raw` piping into another line-oriented tool.
type rawFormatter struct{}

func (rawFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

// setupLogger configures logger's output and formatter from the
// consolidated Config, mirroring cmd/root.go's setupLoggers: log-output
// selects the sink (stderr/stdout/none), log-format selects the renderer
// (text/json/raw).
func setupLogger(logger *logrus.Logger, gs *globalState) error {
	if gs.flags.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	forceColors := false
	switch gs.flags.logOutput {
	case "stderr":
		forceColors = !gs.flags.noColor && gs.stdErr.isTTY
		logger.SetOutput(gs.stdErr)
	case "stdout":
		forceColors = !gs.flags.noColor && gs.stdOut.isTTY
		logger.SetOutput(gs.stdOut)
	case "none":
		logger.SetOutput(io.Discard)
	default:
		return fmt.Errorf("unsupported log output %q", gs.flags.logOutput)
	}

	switch gs.flags.logFormat {
	case "raw":
		logger.SetFormatter(rawFormatter{})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   forceColors,
			DisableColors: gs.flags.noColor,
		})
	}
	return nil
}
