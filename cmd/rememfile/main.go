package main

import (
	"fmt"
	"os"

	"github.com/r-che/rememfile/cmd/rememfile/internal/cfg"
	"github.com/r-che/rememfile/commands"
	"github.com/r-che/rememfile/common/tools"
	"github.com/r-che/rememfile/fsexpand"
	"github.com/r-che/rememfile/store"
	"github.com/r-che/rememfile/types"

	"github.com/r-che/log"
)

const (
	ProgName		=	`rememfile`
	ProgNameLong	=	`Remember File location tool`
	versMilestone	=	`-alpha.1`
	ProgVers		=	`0.1.0` + versMilestone
)

// Exit codes
const (
	ExitOK			=	0
	// RetUsage		=	1	// used by Usage() function
	ExitWarn		=	2
	ExitErr			=	3
)

func main() {
	// Init logger to print to stderr
	if err := log.Open(log.DefaultLog, ProgName, log.NoFlags); err != nil {
		// Try to print error message as warning to stdout
		fmt.Printf("WARN: Cannot open default log: %v\n", err)
	}

	// Initiate configuration
	cfg.Init(ProgName, ProgNameLong, ProgVers)

	// Starting
	log.D("==== %s %s started ====", ProgNameLong, ProgVers)

	// Loading common configuration
	c := cfg.Config()

	// Create the store object on the resolved path, nothing is read yet
	st := store.New(c.StorePath())

	// The watch action runs until stopped by a signal and has its own loop
	if c.Watch {
		os.Exit(watchMode(st))
	}

	// Actions that modify the store take the exclusive lock to avoid
	// concurrent rewrites of the store file
	mutating := c.Set || c.Unset || c.Clear
	if mutating {
		if err := st.Lock(); err != nil {
			log.F("Cannot lock store: %v", err)
		}
	}

	if err := st.Load(); err != nil {
		log.F("Cannot load store: %v", err)
	}

	var rv *types.CmdRV

	switch {
	case c.Set:
		rv = commands.Set(st, cmdArgs(c.CmdArgs))
	case c.Get:
		rv = commands.Get(st, cmdArgs(c.CmdArgs))
	case c.Unset:
		rv = commands.Unset(st, cmdArgs(c.CmdArgs))
	case c.Clear:
		rv = commands.Clear(st)
	default:
		panic("Unexpected application state - no one action is set")
	}

	printOutcomes(rv)

	// Explicit unlock because os.Exit below does not run deferred calls
	if mutating {
		st.Unlock()
	}

	os.Exit(printStatus(rv))
}

// cmdArgs converts the command line paths to the processing arguments:
// directory arguments are expanded when requested, the number of digest
// calculation workers is taken from the configuration
func cmdArgs(paths []string) *types.CmdArgs {
	c := cfg.Config()

	return types.NewCmdArgs(fsexpand.Expand(paths, c.Recursive)...).SetWorkers(c.Workers())
}

func printOutcomes(rv *types.CmdRV) {
	c := cfg.Config()

	if c.Silent {
		return
	}

	for _, o := range rv.Outcomes() {
		fmt.Println(o.Line(c.AbsPaths, c.ShowSums))
	}
}

func printStatus(rv *types.CmdRV) int {
	c := cfg.Config()

	// Print warnings if occurred
	for _, w := range rv.Warns() {
		fmt.Fprintf(os.Stderr, "WRN: %s\n", w)
	}

	// Print errors if occurred
	for _, e := range rv.Errs() {
		fmt.Fprintf(os.Stderr, "ERR: %s\n", e)
	}

	if !c.Quiet {
		// Define status prefix
		pref := tools.Tern(rv.OK(), "OK - ", "")

		// The get action is the only read-only one
		if c.Get {
			fmt.Printf("%s%d found\n", pref, rv.Found())
		} else {
			fmt.Printf("%s%d changed\n", pref, rv.Changed())
		}
	}

	log.D("%s %s finished", ProgNameLong, ProgVers)
	log.Close()

	if rv.OK() {
		return ExitOK	// return OK to OS
	}

	// Something went wrong
	return tools.Tern(len(rv.Errs()) != 0,
		ExitErr,	// errors occurred
		ExitWarn)	// only warnings
}
