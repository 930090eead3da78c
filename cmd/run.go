package cmd

import (
	"path/filepath"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/spf13/cobra"

	"github.com/speedboat/jsrt/builtin"
	"github.com/speedboat/jsrt/cryptoengine"
	"github.com/speedboat/jsrt/fetch"
	"github.com/speedboat/jsrt/internal/console"
	"github.com/speedboat/jsrt/loader"
	"github.com/speedboat/jsrt/manifest"
	"github.com/speedboat/jsrt/modulecache"
	"github.com/speedboat/jsrt/moduleloader"
	"github.com/speedboat/jsrt/nodecompat"
	"github.com/speedboat/jsrt/protocol"
	"github.com/speedboat/jsrt/webcrypto"
	"github.com/speedboat/jsrt/webfetch"
)

// scriptError is the hasExitCode error returned when the script itself
// throws or fails to load, per spec.md §6: "exit codes are 0 on success,
// non-zero on uncaught error."
type scriptError struct {
	cause error
}

func (e *scriptError) Error() string { return e.cause.Error() }
func (e *scriptError) Unwrap() error { return e.cause }
func (e *scriptError) ExitCode() int { return 1 }

func getRunCmd(gs *globalState) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a script",
		Long: `Load and execute a JavaScript file.

The entry script is resolved and loaded through the same module subsystem
a require()/import() call inside a script would use (protocol dispatch,
manifest-aware resolution, CommonJS/ESM format detection).`,
		Example: `
  jsrt run script.js
  jsrt run --crypto-backend=dynamic --crypto-plugin=./provider.so script.js`[1:],
		Args: exactArgsWithMsg(1, "expects a path to a script file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(gs, args[0])
		},
	}
	return runCmd
}

func runScript(gs *globalState, filename string) error {
	cwd, err := gs.getwd()
	if err != nil {
		return err
	}
	entryPath, err := filepath.Abs(filepath.Join(cwd, filename))
	if err != nil {
		return err
	}
	entryDir := filepath.Dir(entryPath)

	table, err := buildCryptoTable(gs.flags)
	if err != nil {
		return err
	}

	registry := protocol.NewDefaultRegistry(gs.fs, protocol.HTTPSecurityPolicy{})
	cache := modulecache.New(0)
	mcache := manifest.NewCache(gs.fs)

	crypto := webcrypto.New(table)
	fetchCore := fetch.NewCore()

	loop := eventloop.NewEventLoop()

	var runErr error
	loop.Run(func(vm *goja.Runtime) {
		if err := console.New(gs.logger).Install(vm); err != nil {
			runErr = err
			return
		}
		if err := crypto.Install(vm); err != nil {
			runErr = err
			return
		}
		jsFetch := webfetch.New(fetchCore, loop)
		if err := jsFetch.Install(vm); err != nil {
			runErr = err
			return
		}

		builtinTable := builtin.Table(crypto.Factory, jsFetch.Factory)
		nodeCompat := nodecompat.NewRegistry(nodecompat.PathModule(), nodecompat.CryptoModule(table))

		facade := moduleloader.New(gs.fs, registry, cache, mcache, entryDir, builtinTable, nodeCompat, loader.Options{
			EnableBabelCompat: gs.flags.babelCompat,
		})

		if _, err := facade.Load(vm, entryPath, ""); err != nil {
			runErr = err
			return
		}
	})

	if runErr != nil {
		return &scriptError{cause: runErr}
	}
	return nil
}

func buildCryptoTable(flags globalFlags) (cryptoengine.OperationTable, error) {
	if flags.cryptoBackend == "dynamic" {
		if flags.cryptoPlugin != "" {
			return cryptoengine.LoadDynamic(flags.cryptoPlugin)
		}
		return cryptoengine.LoadDynamic()
	}
	return cryptoengine.NewStatic(), nil
}
