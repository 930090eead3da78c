// Package cmd implements the jsrt command-line interface: a run command
// that loads and executes a script through the module subsystem, and a
// version command.
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/speedboat/jsrt/internal/jslog"
)

// globalFlags contains global config values that apply to every
// subcommand, populated from defaults, JSRT_* environment variables, an
// optional JSON config file, and finally CLI flags, in that priority
// order (lowest to highest).
type globalFlags struct {
	configFilePath string
	cryptoBackend  string
	cryptoPlugin   string
	babelCompat    bool
	logOutput      string
	logFormat      string
	noColor        bool
	verbose        bool
}

// globalState bundles the process-external state (filesystem, args, env
// vars, std streams, logger) the same way cmd/root.go's teacher-original
// globalState does, so the rest of the cmd package never touches os.*
// directly and can be exercised against a simulated environment in tests.
type globalState struct {
	ctx context.Context

	fs      afero.Fs
	getwd   func() (string, error)
	args    []string
	envVars map[string]string

	defaultFlags, flags globalFlags

	outMutex       *sync.Mutex
	stdOut, stdErr *consoleWriter

	signalNotify func(chan<- os.Signal, ...os.Signal)
	signalStop   func(chan<- os.Signal)

	logger *logrus.Logger
}

func newGlobalState(ctx context.Context) *globalState {
	isDumbTerm := os.Getenv("TERM") == "dumb"
	stdoutTTY := !isDumbTerm && (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	stderrTTY := !isDumbTerm && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	outMutex := &sync.Mutex{}
	stdOut := newConsoleWriter(os.Stdout, stdoutTTY, outMutex)
	stdErr := newConsoleWriter(os.Stderr, stderrTTY, outMutex)

	envVars := buildEnvMap(os.Environ())

	logger := &logrus.Logger{
		Out:       stdErr,
		Formatter: &logrus.TextFormatter{},
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}

	gs := &globalState{
		ctx:          ctx,
		fs:           afero.NewOsFs(),
		getwd:        os.Getwd,
		args:         append(make([]string, 0, len(os.Args)), os.Args...),
		envVars:      envVars,
		defaultFlags: globalFlags{configFilePath: defaultConfigFileName, cryptoBackend: "static", logOutput: "stderr", logFormat: "text"},
		outMutex:     outMutex,
		stdOut:       stdOut,
		stdErr:       stdErr,
		signalNotify: signal.Notify,
		signalStop:   signal.Stop,
		logger:       logger,
	}
	gs.flags = gs.defaultFlags
	return gs
}

func parseEnvKeyValue(kv string) (string, string) {
	if idx := strings.IndexRune(kv, '='); idx != -1 {
		return kv[:idx], kv[idx+1:]
	}
	return kv, ""
}

func buildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v := parseEnvKeyValue(kv)
		env[k] = v
	}
	return env
}

// hasExitCode is satisfied by an error that wants to control the process
// exit code directly, the idiomatic-Go analogue of the teacher's
// errext.HasExitCode interface (without the teacher's full errext
// package, since this runtime only needs the one bit: success or not).
type hasExitCode interface {
	ExitCode() int
}

// rootCommand keeps all fields needed for the main jsrt command.
type rootCommand struct {
	globalState *globalState
	cmd         *cobra.Command
}

func newRootCommand(gs *globalState) *rootCommand {
	c := &rootCommand{globalState: gs}

	rootCmd := &cobra.Command{
		Use:               "jsrt",
		Short:             "an embeddable JavaScript runtime core",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}

	rootCmd.PersistentFlags().AddFlagSet(rootCmdPersistentFlagSet(gs))
	rootCmd.SetArgs(gs.args[1:])
	rootCmd.SetOut(gs.stdOut)
	rootCmd.SetErr(gs.stdErr)

	rootCmd.AddCommand(getRunCmd(gs), getVersionCmd())

	c.cmd = rootCmd
	return c
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, args []string) error {
	conf, err := getConsolidatedConfig(c.globalState.fs, cmd.Flags(), c.globalState.envVars, c.globalState.flags.configFilePath)
	if err != nil {
		return err
	}
	c.globalState.flags.cryptoBackend = conf.CryptoBackend.String
	c.globalState.flags.cryptoPlugin = conf.CryptoPlugin.String
	c.globalState.flags.babelCompat = conf.BabelCompat.Bool
	c.globalState.flags.logOutput = conf.LogOutput.String
	c.globalState.flags.logFormat = conf.LogFormat.String
	c.globalState.flags.noColor = conf.NoColor.Bool
	c.globalState.flags.verbose = conf.Verbose.Bool

	return setupLogger(c.globalState.logger, c.globalState)
}

// Execute adds all child commands to the root command, sets flags
// appropriately, and runs it. Called once by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gs := newGlobalState(ctx)
	rootCmd := newRootCommand(gs)

	if err := rootCmd.cmd.Execute(); err != nil {
		exitCode := 1
		var ecerr hasExitCode
		if errors.As(err, &ecerr) {
			exitCode = ecerr.ExitCode()
		}
		jslog.WithError(gs.logger, err).Error(err.Error())
		os.Exit(exitCode)
	}
}

func rootCmdPersistentFlagSet(gs *globalState) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.AddFlagSet(configFlagSet())

	flags.StringVarP(&gs.flags.configFilePath, "config", "c", gs.flags.configFilePath, "JSON config file")
	flags.Lookup("config").DefValue = gs.defaultFlags.configFilePath
	must(cobra.MarkFlagFilename(flags, "config"))

	flags.StringVar(&gs.flags.logOutput, "log-output", gs.flags.logOutput,
		"change the output for jsrt logs, possible values are stderr, stdout, none")
	flags.Lookup("log-output").DefValue = gs.defaultFlags.logOutput

	flags.StringVar(&gs.flags.logFormat, "log-format", gs.flags.logFormat, "log output format: text, json, raw")
	flags.Lookup("log-format").DefValue = gs.defaultFlags.logFormat

	flags.BoolVar(&gs.flags.noColor, "no-color", gs.flags.noColor, "disable colored output")
	flags.BoolVarP(&gs.flags.verbose, "verbose", "v", gs.defaultFlags.verbose, "enable verbose logging")

	return flags
}
