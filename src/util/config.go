// config.go layers environment variables on top of parsed command line
// flags. Flags set explicitly on the command line always win; environment
// variables only fill in fields the user left at their zero value.

package util

import "github.com/caarlos0/env/v6"

// EnvOverlay mirrors the subset of Options that is reasonable to source from
// the environment in CI and container contexts, where passing a long flag
// list is awkward.
type EnvOverlay struct {
	Out     string `env:"DLTC_OUT"`
	Verbose bool   `env:"DLTC_VERBOSE"`
	LogLevel string `env:"DLTC_LOG_LEVEL" envDefault:"WARN"`
}

// ApplyEnv parses EnvOverlay from the process environment and folds it into
// opt, leaving any field already set on the command line untouched.
func ApplyEnv(opt Options) (Options, string, error) {
	var ov EnvOverlay
	if err := env.Parse(&ov); err != nil {
		return opt, "", err
	}
	if opt.Out == "" {
		opt.Out = ov.Out
	}
	if !opt.Verbose {
		opt.Verbose = ov.Verbose
	}
	return opt, ov.LogLevel, nil
}
