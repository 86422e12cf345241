package main

import (
	"github.com/r-che/rememfile/cmd/rememfile/internal/cfg"
	"github.com/r-che/rememfile/store"
	"github.com/r-che/rememfile/watcher"

	"github.com/r-che/log"
)

// watchMode keeps records of the watched paths fresh until the process is
// stopped by a signal. The store is locked for the whole run - watch is
// a long-living writer and concurrent rewrites would silently lose records.
func watchMode(st *store.Store) int {
	c := cfg.Config()

	// A long-running action may be told to log to a file instead of stderr
	if c.LogFile != "" {
		if err := log.Open(c.LogFile, ProgName, log.Flags()); err != nil {
			log.F("Cannot open log file %q: %v", c.LogFile, err)
		}
	}

	log.I("Watched paths - %v store - %q flush period - %v", c.CmdArgs, st.Path(), c.FlushPeriod)

	if err := st.Lock(); err != nil {
		log.F("Cannot lock store: %v", err)
	}

	if err := st.Load(); err != nil {
		log.F("Cannot load store: %v", err)
	}

	// Init and run the store controller - the single writer applying
	// operations produced by the watchers
	sc := store.NewController(st)
	sc.Run()

	// Create new watchers pool
	wp := watcher.NewPool(c.CmdArgs, sc.Channel(), c.FlushPeriod)

	// Start watchers asynchronously to avoid delays in signal processing
	// if the configured directories contain many entries that can take
	// a long time to index
	go func() {
		// Start watchers in pool, indexing the already existing files
		if err := wp.StartWatchers(watcher.DoIndex); err != nil {
			log.F("Cannot initiate watchers pool on configured paths %q: %v", c.CmdArgs, err)
		}
	}()

	// Wait for external events (signals)
	newSignalsHandler(sc, wp).wait()

	st.Unlock()

	// Finish, cleanup operations
	log.I("%s %s finished normally", ProgNameLong, ProgVers)
	log.Close()

	return ExitOK
}
