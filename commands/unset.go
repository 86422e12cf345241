package commands

import (
	"github.com/r-che/rememfile/store"
	"github.com/r-che/rememfile/types"

	"github.com/r-che/log"
)

// Unset removes from the store every record whose recorded path equals the
// absolute form of the given path. The file content is not needed and the
// file itself may not exist anymore - removal matches by path, exactly the
// way the record was made. The outcome of each path is DELETED or NOENTRY.
func Unset(st *store.Store, args *types.CmdArgs) *types.CmdRV {
	rv := types.NewCmdRV()

	log.D("Unset %d path(s)", len(args.Paths))

	for _, path := range args.Paths {
		abs := absPath(path)

		o := &types.Outcome{Path: path, AbsPath: abs}

		if n := st.DelByPath(abs); n > 0 {
			log.D("Removed %d record(s) of %q", n, abs)
			o.State = types.Deleted
			rv.AddChanged(int64(n))
		} else {
			o.State = types.NoEntry
		}

		rv.AddOutcome(o)
	}

	if rv.Changed() > 0 {
		if err := st.Save(); err != nil {
			return rv.AddErr("cannot save store: %v", err)
		}
	}

	return rv
}
