package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/r-che/rememfile/store"
	"github.com/r-che/rememfile/watcher"

	"github.com/r-che/log"
)

const (
	sigTerm	=	syscall.SIGTERM
	sigInt	=	syscall.SIGINT
	sigHup	=	syscall.SIGHUP
	sigUsr1	=	syscall.SIGUSR1
	sigQuit	=	syscall.SIGQUIT
)

type signalsHandler struct {
	// Channels to receive signals from OS
	chStopApp	chan os.Signal
	chReLogs	chan os.Signal
	chReInd		chan os.Signal
	chStopOps	chan os.Signal

	// Pointers to controlled objects
	sc	*store.Controller
	wp	*watcher.Pool

	// Flags
	reindexRun	bool
}

func newSignalsHandler(sc *store.Controller, wp *watcher.Pool) *signalsHandler {
	sh := signalsHandler{
		sc:	sc,
		wp:	wp,
	}

	sh.chStopApp = make(chan os.Signal, 1)		// Stop application
	signal.Notify(sh.chStopApp, sigTerm, sigInt)

	sh.chReLogs = make(chan os.Signal, 1)		// Reopen logs
	signal.Notify(sh.chReLogs, sigHup)

	sh.chReInd = make(chan os.Signal, 1)		// Run reindexing
	signal.Notify(sh.chReInd, sigUsr1)

	sh.chStopOps = make(chan os.Signal, 1)		// Stop long-term operations (reindexing)
	signal.Notify(sh.chStopOps, sigQuit)

	return &sh
}

func (sh *signalsHandler) wait() {
	// Wait signals from OS
	for {
		select {
		case s := <-sh.chStopApp:
			// Stop application
			log.W("Received %q - graceful stopping application... To abort immediately repeat the termination signal", s)

			go func() {
				<-sh.chStopApp
				log.F("Aborted because of the second termination signal")
			}()

			// Stop all watchers, the final flush of cached events happens here
			sh.wp.StopWatchers()

			// Stop store controller
			sh.sc.Stop()

			return

		case s := <-sh.chReLogs:
			log.I("Received %q - reopening log file...", s)
			if err := log.Reopen(); err != nil {
				log.E("Cannot reopen logs: %v", err)
			} else {
				log.I("Log file reopened")
			}

		// Need to restart watching on configured paths
		case s := <-sh.chReInd:
			log.W("Received %q, starting re-indexing operation...", s)

			sh.startReindex()

		case <-sh.chStopOps:
			sh.wp.TermLong()
		}
	}
}

func (sh *signalsHandler) startReindex() {
	// Need to restart watching on configured paths

	if sh.reindexRun {
		log.E("Reindexing has already begun")
		return
	}
	sh.reindexRun = true

	go func() {
		// Stop all watchers
		log.I("Stopping watchers to restart indexing...")
		sh.wp.StopWatchers()

		log.I("Restarting indexing")
		if err := sh.wp.StartWatchers(watcher.DoIndex); err != nil {
			log.E("Reindexing failed: %v", err)
		}

		sh.reindexRun = false
	}()
}
