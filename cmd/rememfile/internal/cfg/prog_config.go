package cfg

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/r-che/log"
)

// Default location of the store file related to the home directory
var storeSuff = filepath.Join(".rememfile", "store")

type progConfig struct {
	// Action selected by the first command line argument
	Set		bool
	Get		bool
	Unset	bool
	Clear	bool
	Watch	bool

	// Output options
	Silent		bool
	ShowSums	bool
	AbsPaths	bool
	ShowAll		bool	// accepted for compatibility, has no effect

	// Processing options
	Recursive	bool
	workers		int64
	FlushPeriod	time.Duration

	// Auxiliary options
	LogFile		string
	Debug		bool
	NoLogTS		bool
	Quiet		bool
	confPath	string
	storePath	string

	// Non-flags arguments from command line - paths of files to process
	CmdArgs []string

	// Program configuration loaded from file
	fConf	fileCfg
}

func NewConfig() *progConfig {	//nolint:revive	// Currently, I prefer to keep it unexported
	return &progConfig{}
}

// Workers returns the configured number of concurrent digest calculation
// workers, zero value is resolved to the number of available CPUs
func (pc *progConfig) Workers() int {
	if pc.workers == 0 {
		return runtime.NumCPU()
	}

	return int(pc.workers)
}

// StorePath resolves the path to the store file: the command line option wins,
// then the value from the configuration file, then the per-user default
func (pc *progConfig) StorePath() string {
	if pc.storePath != "" {
		return pc.storePath
	}

	if pc.fConf.Store != "" {
		return pc.fConf.Store
	}

	homeEnv, ok := os.LookupEnv(`HOME`)
	if !ok {
		log.F(`Cannot get value of the "HOME" variable to determine the default store location,` +
			` use the --store option`)
	}

	return filepath.Join(homeEnv, storeSuff)
}

func (pc *progConfig) clone() *progConfig {
	rv := *pc

	// Make deep copy of CmdArgs
	rv.CmdArgs = make([]string, len(pc.CmdArgs))
	copy(rv.CmdArgs, pc.CmdArgs)

	return &rv
}

func (pc *progConfig) prepare(cmdArgs []string) error {
	// The first argument selects the action
	if len(cmdArgs) == 0 {
		return fmt.Errorf("no action specified")
	}

	if err := pc.prepareAction(cmdArgs[0]); err != nil {
		return err
	}

	// Keep the paths to process
	pc.CmdArgs = cmdArgs[1:]

	if err := pc.prepareActionArgs(); err != nil {
		return err
	}

	if pc.workers < 0 {
		return fmt.Errorf("invalid number of workers - %d", pc.workers)
	}

	if pc.Watch && pc.FlushPeriod <= 0 {
		return fmt.Errorf("invalid flush period - %v", pc.FlushPeriod)
	}

	// Is program configuration was not set?
	if pc.confPath == progConfigDefault {
		// Try to define default path
		if homeEnv, ok := os.LookupEnv(`HOME`); ok {
			pc.confPath = filepath.Join(homeEnv, progConfigSuff)
		} else {
			log.E(`Cannot get value of the "HOME", the default path to the program configuration is not determined`)
		}
	}

	// Load configuration from file and return result
	return pc.loadConf()
}

func (pc *progConfig) prepareAction(action string) error {
	switch action {
	case `set`, `s`:
		pc.Set = true
	case `get`, `g`:
		pc.Get = true
	case `unset`, `u`:
		pc.Unset = true
	case `clear`, `c`:
		pc.Clear = true
	case `watch`, `w`:
		pc.Watch = true
	default:
		return fmt.Errorf("unknown action %q", action)
	}

	return nil
}

func (pc *progConfig) prepareActionArgs() error {
	switch {
	// Empty file list is allowed for set/get/unset - such a call is a no-op
	case pc.Clear:
		if len(pc.CmdArgs) != 0 {
			return fmt.Errorf("the clear action does not take file arguments")
		}
	case pc.Watch:
		if len(pc.CmdArgs) == 0 {
			return fmt.Errorf("the watch action requires at least one path to watch")
		}
	}

	return nil
}
