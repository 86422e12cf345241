package cfg

import (
	"fmt"
	stdLog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/r-che/log"
	"github.com/r-che/optsparser"
)

const authors = "Roman Chebotarev"

var config *progConfig

// Defaults
var progConfigSuff = filepath.Join(".rememfile", "cli.json")
var progConfigDefault = filepath.Join("${HOME}", progConfigSuff)

func Init(name, nameLong, vers string) {
	// Create new parser
	p := optsparser.NewParser(name,
		// List of required options
	).SetUsageOnFail(false)

	config = NewConfig()

	p.AddSeparator(`>> Output options`)
	p.AddBool(`silent|s`, `do not print the per-file result lines`, &config.Silent, false)
	p.AddBool(`show-hashes|H`, `print the content digest in each result line`, &config.ShowSums, false)
	p.AddBool(`show-absolute-paths|a`,
		`print absolute paths instead of the paths given on the command line`, &config.AbsPaths, false)
	p.AddBool(`show-all|A`,
		`accepted for compatibility with earlier versions, all results are printed by default`,
		&config.ShowAll, false)

	p.AddSeparator(``,
		`>> Processing options`,
	)
	p.AddBool(`recursive|r`,
		`replace each directory argument by all regular files beneath it`, &config.Recursive, false)
	p.AddInt64(`workers|w`,
		`number of concurrent digest calculation workers, 0 - number of available CPUs`,
		&config.workers, 0)
	p.AddDuration(`flush-period|F`,
		`watch action - period between flushing the collected filesystem events to the store`,
		&config.FlushPeriod, 5 * time.Second)
	p.AddString(`store|S`,
		`path to the store file, overrides the value from the configuration file`,
		&config.storePath, "")

	// Auxiliary options
	p.AddSeparator(``,
		`>> General options`,
	)
	p.AddString(`cfg|c`, `path to configuration file`, &config.confPath, progConfigDefault)
	p.AddString(`log-file|l`, `path to the log file, used by the watch action`, &config.LogFile, "")
	p.AddBool(`debug|d`, `enable debug logging`, &config.Debug, false)
	p.AddBool(`nologts`, `disable log timestamps`, &config.NoLogTS, false)
	p.AddBool(`quiet|q`, `be quiet, do not print the summary line`, &config.Quiet, false)
	showVer := false
	p.AddBool(`version|V`, `output version and authors information and exit`, &showVer, false)

	// Actions and signals handling information
	p.AddSeparator(``,
		`>> Actions (the first command line argument)`,
		`* set (s)   - remember the current location of each given file`,
		`* get (g)   - print the last known location of a file with the same content`,
		`* unset (u) - forget the records made for the given paths`,
		`* clear (c) - forget all records`,
		`* watch (w) - keep records of the given paths fresh until stopped`,
		``,
		`# Signals supported by the watch action:`,
		`* TERM, INT - stop application`,
		`* HUP       - reopen log`,
		`* USR1      - run reindexing of the watched paths`,
		`* QUIT      - stop long-term operations such as reindexing`,
	)

	// Parse options
	err := p.Parse()

	// Is version requested? We can show it without error checking
	if showVer {
		// Show version/authors info and exit
		fmt.Printf("%s (%s) %s\n", nameLong, name, vers)
		fmt.Printf("Written by %s\n", authors)
		os.Exit(0)
	}

	// Now, need to check parsing error
	if err != nil {
		// Some problems with command line options
		fmt.Fprintf(os.Stderr, "%s: usage error - %v\n", name, err)
		fmt.Fprintf(os.Stderr, "Try '%s --help' for more information.\n", name)
		os.Exit(1)
	}

	// Configure logger
	if !config.NoLogTS {
		if err := log.SetFlags(log.Flags() | stdLog.Ldate | stdLog.Ltime); err != nil {
			panic("Cannot set logger flags: " + err.Error())
		}
	}
	log.SetDebug(config.Debug)

	// Check and prepare configuration
	if err := config.prepare(p.Args()); err != nil {
		// Preparation failed, print error and exit
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		fmt.Fprintf(os.Stderr, "Try '%s --help' for more information.\n", name)
		os.Exit(1)
	}
}

// Config returns a new configuration structure as a copy
// of existing to avoid accidentally modifications
func Config() *progConfig {	//nolint:revive	// Currently, I prefer to keep it unexported
	return config.clone()
}
