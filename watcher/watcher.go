package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/r-che/rememfile/common/tools"
	"github.com/r-che/rememfile/hasher"
	"github.com/r-che/rememfile/store"

	"github.com/r-che/log"

	fsn "github.com/fsnotify/fsnotify"
)

type (
	eventsMap	map[string]*FSEvent
	ctrlChan	chan bool
)

const (
	// Do or do not indexing of already existing objects under the path
	DoIndex	=	true
	NoIndex	=	false

	// OS dependent path separator
	pathSeparator	=	string(os.PathSeparator)
)

type Watcher struct {
	// Startup variables
	path			string
	flushInterval	time.Duration
	opChan			chan<- []*store.Operation	// to send operations to the store controller

	// Non-empty when path is a single file - the watcher is set on the parent
	// directory and events of all other entries are ignored
	only		string

	// Runtime variables
	eMap		eventsMap
	ctrlCh		ctrlChan
	watchDirs	tools.Set[string]
	termLongVal int				// should be incremented when need to terminate long-term operation

	// fsnotify watcher object
	w	*fsn.Watcher
}

func NewWatcher(path string, flushInterval time.Duration,
				opChan chan<- []*store.Operation) (*Watcher, error) {
	log.D("(NewWatcher) Creating watcher for %q ...", path)

	// Check that path is not absolute
	if !filepath.IsAbs(path) {
		// Convert it to the absolute value
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf(
				"(NewWatcher) cannot convert non-absolute path %q to the absolute form: %w", path, err)
		}

		// Replace value
		log.D("(NewWatcher) Converted non-absolute path %q to %q", path, absPath)
		path = absPath
	}

	// Create new watcher structure
	w := Watcher{
		path:			path,
		flushInterval:	flushInterval,
		opChan:			opChan,
		ctrlCh:			make(ctrlChan),
		eMap:			eventsMap{},
	}

	// Only directories can carry an inotify watch recursively. For a single
	// file the watcher is set on its parent directory and filtered by name
	oi, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("(NewWatcher) cannot stat %q: %w", path, err)
	}
	if !oi.IsDir() {
		w.only = path
		w.path = filepath.Dir(path)
	}

	// Create new FS watcher
	w.w, err = fsn.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("(NewWatcher) cannot create watcher for %q: %w", path, err)
	}

	// OK - return created watcher
	return &w, nil
}

func (w *Watcher) Path() string {
	if w.only != "" {
		return w.only
	}
	return w.path
}

func (w *Watcher) Watch(doIndex bool) error {
	// Number of total watchers set during Watch execution
	total := 0

	var err error

	if w.only != "" {
		// Single file mode - watch the parent directory only
		if err = w.w.Add(w.path); err != nil {
			return fmt.Errorf("(Watcher:%s) cannot set watcher: %w", w.only, err)
		}
		total++

		if doIndex {
			w.eMap[w.only] = &FSEvent{Type: EvCreate}
		}
	} else if doIndex {
		log.I("(Watcher:%s) Starting indexing ...", w.path)

		// Do recursive scan and indexing of existing objects
		total, err = w.scanDir(w.path, DoIndex)
		if err != nil {
			return fmt.Errorf("(Watcher:%s) cannot index: %w", w.path, err)
		}

		log.I("(Watcher:%s) Indexing done", w.path)
	} else {
		// Run recursive scan without indexing
		if total, err = w.scanDir(w.path, NoIndex); err != nil {
			return fmt.Errorf("(Watcher:%s) cannot set watcher: %w", w.path, err)
		}
	}

	// Run watcher for path
	go w.watch()

	log.I("(Watcher:%s) Started, %d watchers were set", w.Path(), total)

	// OK
	return nil
}

func (w *Watcher) watch() {
	// Create a set of watched directories to be able to remove watchers from removed directories
	w.watchDirs = tools.NewSet(w.w.WatchList()...)

	// Timer to flush cached events to the store controller
	timer := time.Tick(w.flushInterval)

	//
	// Run events loop
	//
	for {
		select {
		// Some event
		case event, ok := <-w.w.Events:
			if !ok {
				log.F("(Watcher:%s) Filesystem events channel unexpectedly closed", w.Path())
			}

			// Handle event
			w.handleEvent(&event)

		// Need to flush cached events
		case <-timer:
			if len(w.eMap) == 0 {
				log.D("(Watcher:%s) No new events", w.Path())
				// No new events
				continue
			}

			log.D("(Watcher:%s) Flushing %d event(s)", w.Path(), len(w.eMap))

			// Flush collected events
			if err := w.flushCached(); err != nil {
				log.E("(Watcher:%s) Cannot flush cached items: %v", w.Path(), err)
			}

			// Replace cache by new empty map
			w.eMap = eventsMap{}

		// Some error
		case err, ok := <-w.w.Errors:
			if !ok {
				log.F("(Watcher:%s) Errors channel unexpectedly closed", w.Path())
			}
			log.E("(Watcher:%s) Filesystem events watcher returned error: %v", w.Path(), err)

		// Control event - need to stop watching
		case <-w.ctrlCh:
			// Stop watching filesystem
			if err := w.w.Close(); err != nil {
				log.E("(Watcher:%s) Cannot close fsnotify watcher: %v", w.Path(), err)
			} else {
				log.D("(Watcher:%s) fsnotify watcher closed", w.Path())
			}

			// Flush collected events
			if len(w.eMap) != 0 {
				log.I("(Watcher:%s) Flushing %d event(s) before termination", w.Path(), len(w.eMap))

				// Flush collected events
				if err := w.flushCached(); err != nil {
					log.E("(Watcher:%s) Cannot flush cached items: %v", w.Path(), err)
				}
			}

			log.I("(Watcher:%s) Stopped due to user request", w.Path())

			// Notify pool
			go func() {
				w.ctrlCh <-true
			}()

			return
		}
	}
}

func (w *Watcher) flushCached() error {
	// Prepare store operations list
	ops := make([]*store.Operation, 0, len(w.eMap))

	// Keep current termLongVal value to have ability to compare during long-term operations
	initTermLong := w.termLongVal

	// Handle events one by one
	for ePath, event := range w.eMap {
		// If value of the termLongVal was updated - need to stop long-term operation
		if w.termLongVal != initTermLong {
			return fmt.Errorf("(Watcher:%s) terminated", w.Path())
		}

		switch event.Type {
		// Object was created or updated, its record should be refreshed
		case EvCreate, EvWrite:
			// Only regular files have a content digest
			oi, err := os.Lstat(ePath)
			if err != nil {
				// The object may have already disappeared, this is not a failure -
				// its record (if any) keeps the last known location
				log.D("(Watcher:%s) Skip object %q: %v", w.Path(), ePath, err)
				continue
			}
			if !oi.Mode().IsRegular() {
				log.D("(Watcher:%s) Skip object %q due to unsupported type", w.Path(), ePath)
				continue
			}

			digest, err := hasher.Sum(ePath)
			if err != nil {
				log.W("(Watcher:%s) Skip object %q due to digest calculation problem: %v",
					w.Path(), ePath, err)
				continue
			}

			// Append a store operation
			ops = append(ops, &store.Operation{Path: ePath, Digest: digest})

		// Unsupported FSEvent
		default:
			panic(fmt.Sprintf("(Watcher:%s) Unhandled FSEvent type %v (%d) occurred on path %q",
				w.Path(), event.Type, event.Type, ePath))
		}
	}

	if len(ops) == 0 {
		log.D("(Watcher:%s) All cached events were skipped, nothing to send", w.Path())
		return nil
	}

	log.I("(Watcher:%s) Sending %d operations to store controller", w.Path(), len(ops))

	// Send operations to the store controller channel
	w.opChan <-ops

	// No errors
	return nil
}

func (w *Watcher) scanDir(dir string, doIndexing bool) (int, error) {
	// Total number of watchers set to the dir
	total := 0

	// Add watcher for the directory itself
	if err := w.w.Add(dir); err != nil {
		log.E("(Watcher:%s) Cannot add watcher to directory %q: %v", w.path, dir, err)
	} else {
		log.D("(Watcher:%s) Added watcher to %q", w.path, dir)
		total++
	}

	// Scan directory to watch all subentries
	entries, err := os.ReadDir(dir)
	if err != nil {
		return total, fmt.Errorf("(Watcher:%s) cannot read entries of directory %q: %w", w.path, dir, err)
	}

	// Keep current termLongVal value to have ability to compare during long-term operations
	initTermLong := w.termLongVal

	for _, entry := range entries {
		// If value of the termLongVal was updated - need to stop long-term operation
		if w.termLongVal != initTermLong {
			return total, fmt.Errorf("(Watcher:%s) terminated", w.path)
		}

		// Create object name as path concatenation of the top level directory and the entry name
		objName := filepath.Join(dir, entry.Name())

		// Is indexing of objects required?
		if doIndexing && entry.Type().IsRegular() {
			// Add each regular file as newly created object to refresh its record
			w.eMap[objName] = &FSEvent{Type: EvCreate}
		}

		// Check that the the entry is a directory
		if entry.IsDir() {
			// Do recursively call to scan all directory subentries
			nw, err := w.scanDir(objName, doIndexing)
			if err != nil {
				log.E("(Watcher:%s) Cannot scan nested directory %q: %v", w.path, objName, err)
			}
			total += nw
		}
	}

	return total, nil
}

func (w *Watcher) handleEvent(event *fsn.Event) {
	// In single file mode events of all other directory entries are ignored
	if w.only != "" && event.Name != w.only {
		return
	}

	//
	// Filesystem object was created
	//
	if event.Has(fsn.Create) {

		// Create new entry
		w.eMap[event.Name] = &FSEvent{Type: EvCreate}

		// Check that the created object is a directory
		oi, err := os.Lstat(event.Name)
		if err != nil {
			log.W("(Watcher:%s) Cannot stat() for created object %q: %v", w.Path(), event.Name, err)
			return
		}

		isDir := oi.IsDir()
		log.D("(Watcher:%s) Created %s %q", w.Path(), tools.Tern(isDir, "directory", "object"), event.Name)

		if isDir && w.only == "" {
			// Need to add watcher for newly created directory
			if err = w.w.Add(event.Name); err != nil {
				log.E("(Watcher:%s) Cannot add watcher to directory %q: %v", w.path, event.Name, err)
				return
			}

			// Register directory
			w.watchDirs.Add(event.Name)

			log.I("(Watcher:%s) Added watcher for %q", w.path, event.Name)
			// Do recursive scan and add watchers to all subdirectories
			_, err := w.scanDir(event.Name, DoIndex)
			if err != nil {
				log.E("(Watcher:%s) Cannot scan newly created directory %q: %v", w.path, event.Name, err)
			}
		}

		return
	}

	//
	// Data in filesystem object was updated
	//
	if event.Has(fsn.Write) {
		// Update existing entry
		w.eMap[event.Name] = &FSEvent{Type: EvWrite}

		return
	}

	//
	// Filesystem object was removed or renamed
	//
	if event.Op & (fsn.Remove | fsn.Rename) != 0 {
		// Is event name empty?
		if event.Name == "" {
			// Event with empty name may be caused by renaming
			return
		}

		isDir := w.watchDirs.Includes(event.Name)

		log.D("(Watcher:%s) %s %s %q", w.Path(),
			tools.Tern(event.Has(fsn.Remove), "Removed", "Renamed"),
			tools.Tern(isDir, "directory", "object"), event.Name)

		// Records are never pruned automatically - the store keeps the last
		// known location of the content even after the file is gone. Only
		// the cached event of the object (if any) has to be dropped
		delete(w.eMap, event.Name)

		// Is it a directory?
		if isDir {
			// Unregister removed/renamed directory
			w.watchDirs.Del(event.Name)

			// Is it a rename event?
			if event.Op & fsn.Rename != 0 {
				// Remove watcher from the directory itself and from all directories in the dir hierarchy
				if err := w.unwatchDir(event.Name); err != nil {
					log.E("(Watcher:%s) Cannot remove watchers from directory %q with its subdirectories: %v",
						w.path, event.Name, err)
					return
				}
			} else {
				// Nothing to do in this case, because the path removed from
				// the disk is automatically removed from the watch list
			}
		}

		return
	}

	//
	// Object mode was changed
	//
	if event.Has(fsn.Chmod) {
		// Currently, do nothing
		return
	}

	//
	// Unexpected event
	//
	log.W("(Watcher:%s) Unknown event from fsnotify: %[2]v (%#[2]v)", w.Path(), event)
}

func (w *Watcher) unwatchDir(dir string) error {
	// Counter for successfully removed watchers
	removed := 0

	log.D("(Watcher:%s) Removing watchers recursively from %q ...", w.path, dir)

	// Need to remove watcher from the directory self
	if err := w.w.Remove(dir); err != nil {
		return fmt.Errorf("(Watcher:%s) unwatch failed for %q: %v", w.path, dir, err)
	}

	// At least one watcher were removed
	removed++

	// Append OS-dependent path separator to end of the directory name
	// to avoid remove watchers prefixed with dir but are not nested to the dir,
	// e.g: if dir=/dir/to/rem, then [/dir/to/rem/1, /dir/to/rem/2] should be
	// removed, but /dir/to/remove should NOT
	dirPref := dir + pathSeparator

	// Going through all watchers and remove that match the dirPref
	for _, wPath := range w.w.WatchList() {
		// Skip non-matching
		if !strings.HasPrefix(wPath, dirPref) {
			continue
		}

		// Remove watcher from this path
		err := w.w.Remove(wPath)
		if err == nil {
			// Success, increase counter and continue
			removed++
			continue
		}

		//
		// Some error occurred
		//

		// Check for non-existing error
		if errors.Is(err, fsn.ErrNonExistentWatch) {
			// It is strange, but not critical, print warning and continue
			log.W("(Watcher:%s) Tried to remove watcher from a directory %q" +
				" where watcher is already removed", w.path, dir)

			continue
		}

		// Unexpected system error, break removal operation
		return fmt.Errorf("(Watcher:%s) unwatch of %q failed: %v", w.path, dir, err)
	}

	log.D("(Watcher:%s) Total %d watchers were removed from %s", w.path, removed, dir)

	// OK
	return nil
}

// TermLong terminates long-term operations on filesystem.
func (w *Watcher) TermLong() {
	w.termLongVal++
}

// Stop starts the watcher termination process. It does not block the caller.
func (w *Watcher) Stop() {
	go func() {
		w.ctrlCh <-true
	}()
}

// Wait blocks the caller until watcher is stopped.
func (w *Watcher) Wait() {
	<-w.ctrlCh
}
