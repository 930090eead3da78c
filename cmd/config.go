package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	null "gopkg.in/guregu/null.v3"
)

const defaultConfigFileName = "config.json"

// configFlagSet returns the flag set shared by every subcommand that reads
// runtime configuration, mirroring cmd/root.go's rootCmdPersistentFlagSet
// pattern: flags double as both the destination and the default, since the
// value may already have been set from an environment variable by the time
// the flag set is built.
func configFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.String("crypto-backend", "static", "crypto operation table: static or dynamic")
	flags.String("crypto-plugin", "", "path to a dynamic crypto provider plugin (.so), when --crypto-backend=dynamic")
	flags.Bool("babel-compat", false, "enable the @babel/types CommonJS compatibility shim")
	return flags
}

// Config is the consolidated runtime configuration, assembled the way
// cmd/root.go's getFlags/getDefaultFlags layers defaults under environment
// variables: CLI flags take final priority, then JSRT_* env vars, then the
// JSON config file, then the hardcoded defaults below.
type Config struct {
	CryptoBackend  null.String `json:"cryptoBackend"`
	CryptoPlugin   null.String `json:"cryptoPlugin"`
	BabelCompat    null.Bool   `json:"babelCompat"`
	LogOutput      null.String `json:"logOutput"`
	LogFormat      null.String `json:"logFormat"`
	NoColor        null.Bool   `json:"noColor"`
	Verbose        null.Bool   `json:"verbose"`
}

// Apply layers cfg over c, keeping c's own value for every field cfg
// leaves unset (Valid == false), exactly as k6's own Config.Apply does for
// lib.Options.
func (c Config) Apply(cfg Config) Config {
	if cfg.CryptoBackend.Valid {
		c.CryptoBackend = cfg.CryptoBackend
	}
	if cfg.CryptoPlugin.Valid {
		c.CryptoPlugin = cfg.CryptoPlugin
	}
	if cfg.BabelCompat.Valid {
		c.BabelCompat = cfg.BabelCompat
	}
	if cfg.LogOutput.Valid {
		c.LogOutput = cfg.LogOutput
	}
	if cfg.LogFormat.Valid {
		c.LogFormat = cfg.LogFormat
	}
	if cfg.NoColor.Valid {
		c.NoColor = cfg.NoColor
	}
	if cfg.Verbose.Valid {
		c.Verbose = cfg.Verbose
	}
	return c
}

func defaultConfig() Config {
	return Config{
		CryptoBackend: null.StringFrom("static"),
		LogOutput:     null.StringFrom("stderr"),
		LogFormat:     null.StringFrom("text"),
	}
}

// getConfig reads configuration from CLI flags.
func getConfig(flags *pflag.FlagSet) (Config, error) {
	conf := Config{
		CryptoBackend: getNullString(flags, "crypto-backend"),
		CryptoPlugin:  getNullString(flags, "crypto-plugin"),
		BabelCompat:   getNullBool(flags, "babel-compat"),
	}
	if flags.Lookup("log-output") != nil {
		conf.LogOutput = getNullString(flags, "log-output")
	}
	if flags.Lookup("log-format") != nil {
		conf.LogFormat = getNullString(flags, "log-format")
	}
	if flags.Lookup("no-color") != nil {
		conf.NoColor = getNullBool(flags, "no-color")
	}
	if flags.Lookup("verbose") != nil {
		conf.Verbose = getNullBool(flags, "verbose")
	}
	return conf, nil
}

// readEnvConfig reads configuration from JSRT_* environment variables,
// the way cmd/root.go's getFlags reads K6_* variables directly rather than
// through a generic envconfig struct tag walk.
func readEnvConfig(envVars map[string]string) Config {
	var conf Config
	if v, ok := envVars["JSRT_CRYPTO_BACKEND"]; ok {
		conf.CryptoBackend = null.StringFrom(v)
	}
	if v, ok := envVars["JSRT_CRYPTO_PLUGIN"]; ok {
		conf.CryptoPlugin = null.StringFrom(v)
	}
	if v, ok := envVars["JSRT_BABEL_COMPAT"]; ok {
		conf.BabelCompat = null.NewBool(v != "" && v != "0" && v != "false", true)
	}
	if v, ok := envVars["JSRT_LOG_OUTPUT"]; ok {
		conf.LogOutput = null.StringFrom(v)
	}
	if v, ok := envVars["JSRT_LOG_FORMAT"]; ok {
		conf.LogFormat = null.StringFrom(v)
	}
	if _, ok := envVars["NO_COLOR"]; ok { // https://no-color.org/
		conf.NoColor = null.BoolFrom(true)
	}
	if v, ok := envVars["JSRT_NO_COLOR"]; ok && v != "" {
		conf.NoColor = null.BoolFrom(true)
	}
	return conf
}

// readDiskConfig reads a JSON config file from path, if it exists. A
// missing file is not an error - it simply contributes no overrides.
func readDiskConfig(fs afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var conf Config
	if err := json.Unmarshal(data, &conf); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// getConsolidatedConfig assembles the final configuration: defaults, then
// the config file, then environment variables, then CLI flags - each layer
// overriding only the fields the previous one left unset.
func getConsolidatedConfig(fs afero.Fs, flags *pflag.FlagSet, envVars map[string]string, configPath string) (Config, error) {
	conf := defaultConfig()

	fileConf, err := readDiskConfig(fs, configPath)
	if err != nil {
		return conf, err
	}
	conf = conf.Apply(fileConf)

	conf = conf.Apply(readEnvConfig(envVars))

	cliConf, err := getConfig(flags)
	if err != nil {
		return conf, err
	}
	conf = conf.Apply(cliConf)

	return conf, nil
}
