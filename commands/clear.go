package commands

import (
	"github.com/r-che/rememfile/store"
	"github.com/r-che/rememfile/types"

	"github.com/r-che/log"
)

// Clear removes all records from the store and persists the empty mapping
func Clear(st *store.Store) *types.CmdRV {
	rv := types.NewCmdRV()

	n := st.Clear()

	log.D("Removed all %d record(s) from the store", n)

	// An already empty store needs no rewriting
	if n == 0 {
		return rv
	}

	if err := st.Save(); err != nil {
		return rv.AddErr("cannot save store: %v", err)
	}

	return rv.AddChanged(int64(n))
}
