package commands

import (
	"github.com/r-che/rememfile/store"
	"github.com/r-che/rememfile/types"

	"github.com/r-che/log"
)

// Set calculates digests of the files and records digest -> path in the
// store. The outcome of each path is CREATED if the digest was not recorded
// before, UPDATED if it was (possibly under another path - last write wins),
// or ERROR if the file could not be hashed. The store is persisted once,
// after the whole batch.
func Set(st *store.Store, args *types.CmdArgs) *types.CmdRV {
	rv := types.NewCmdRV()

	log.D("Set %d path(s) using %d worker(s)", len(args.Paths), args.Workers)

	sums := calcSums(args.Paths, args.Workers)

	failed := 0
	for i, path := range args.Paths {
		abs := absPath(path)

		// A broken file must not block the rest of the batch
		if sums[i].err != nil {
			log.D("Failed to calculate digest of %q: %v", abs, sums[i].err)
			rv.AddOutcome(&types.Outcome{State: types.OpError, Path: path, AbsPath: abs, Err: sums[i].err})
			failed++
			continue
		}

		o := &types.Outcome{Path: path, AbsPath: abs, Digest: sums[i].digest}

		// The state depends on the digest already being known to the store
		if _, ok := st.Get(sums[i].digest); ok {
			o.State = types.Updated
		} else {
			o.State = types.Created
		}

		st.Set(sums[i].digest, abs)
		rv.AddOutcome(o).AddChanged(1)
	}

	// Persist the store once for the whole batch - a single atomic replace
	// instead of one rename per file
	if rv.Changed() > 0 {
		if err := st.Save(); err != nil {
			return rv.AddErr("cannot save store: %v", err)
		}
	}

	if failed != 0 {
		rv.AddErr("failed to process %d of %d files", failed, len(args.Paths))
	}

	return rv
}
