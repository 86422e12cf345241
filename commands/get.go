package commands

import (
	"github.com/r-che/rememfile/store"
	"github.com/r-che/rememfile/types"

	"github.com/r-che/log"
)

// Get calculates digests of the files and looks up their recorded
// locations. The outcome of each path is HIT with the recorded path, MISS
// if the content was never recorded, or ERROR if the file could not be
// hashed. The store is never modified.
//
// Hashing failures are accumulated as warnings, not errors: a file that
// cannot be read right now says nothing about the validity of the store,
// and MISS is not a failure either.
func Get(st *store.Store, args *types.CmdArgs) *types.CmdRV {
	rv := types.NewCmdRV()

	log.D("Get %d path(s) using %d worker(s)", len(args.Paths), args.Workers)

	sums := calcSums(args.Paths, args.Workers)

	for i, path := range args.Paths {
		abs := absPath(path)

		if sums[i].err != nil {
			rv.AddOutcome(&types.Outcome{State: types.OpError, Path: path, AbsPath: abs, Err: sums[i].err})
			rv.AddWarn("cannot process %q: %v", path, sums[i].err)
			continue
		}

		o := &types.Outcome{Path: path, AbsPath: abs, Digest: sums[i].digest}

		if recPath, ok := st.Get(sums[i].digest); ok {
			o.State = types.Hit
			o.RecPath = recPath
			rv.AddFound(1)
		} else {
			o.State = types.Miss
		}

		rv.AddOutcome(o)
	}

	return rv
}
