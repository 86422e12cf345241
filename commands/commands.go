/*
Package commands implements the batch logic of the rememfile operations.

Every command receives an explicitly loaded *store.Store and the prepared
command arguments, processes the paths one by one and returns a *types.CmdRV
with one Outcome per input path, in input order. A failure of a single file
never interrupts the batch - it becomes an ERROR outcome. Failures of the
store itself (load, save) are fatal and reported as CmdRV errors.
*/
package commands

import (
	"path/filepath"
	"sync"

	"github.com/r-che/rememfile/hasher"
	"github.com/r-che/rememfile/types"

	"github.com/r-che/log"
)

type sumResult struct {
	digest	types.Digest
	err		error
}

// calcSums calculates digests of all paths using up to workers concurrent
// workers. Every worker writes only to its own indexes of the results
// slice, so the outcome order never depends on the completion order.
func calcSums(paths []string, workers int) []sumResult {
	results := make([]sumResult, len(paths))

	if len(paths) == 0 {
		return results
	}

	// No point in keeping more workers than paths
	if workers > len(paths) {
		workers = len(paths)
	}

	// Pure sequential processing - the default mode
	if workers <= 1 {
		for i, path := range paths {
			results[i].digest, results[i].err = hasher.Sum(path)
		}

		return results
	}

	log.D("Hashing %d path(s) with %d workers", len(paths), workers)

	jobs := make(chan int, len(paths))

	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx].digest, results[idx].err = hasher.Sum(paths[idx])
			}
		}()
	}

	// Feed workers with path indexes
	for i := range paths {
		jobs <-i
	}
	close(jobs)

	// Wait for all digests calculated
	wg.Wait()

	return results
}

// absPath converts the path to the absolute form used in store records.
// On failure the original value is kept - a relative record is still
// better than a lost one.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		log.W("Cannot convert %q to the absolute form: %v", path, err)
		return path
	}

	return abs
}
