package store

import (
	"context"
	"sync"

	"github.com/r-che/rememfile/types"

	"github.com/r-che/log"
)

// Operation - an update of a single record that should be applied to the store
type Operation struct {
	Path	string			// absolute path of the file
	Digest	types.Digest	// freshly calculated digest of its content
}

type OpChan chan []*Operation

//
// Controller - the single serialization point for store mutations performed
// by concurrent producers (filesystem watchers). Operations are received in
// batches over the channel, applied by one goroutine and persisted after
// every batch that changed anything.
//
type Controller struct {
	// Internal fields
	ctx		context.Context

	opChan	OpChan

	st		*Store

	wg		*sync.WaitGroup
	cancel	context.CancelFunc
}

func NewController(st *Store) *Controller {
	// Context to stop the controller
	ctx, cancel := context.WithCancel(context.Background())

	return &Controller{
		ctx:	ctx,
		opChan:	make(OpChan),
		st:		st,
		wg:		&sync.WaitGroup{},
		cancel:	cancel,
	}
}

func (sc *Controller) Stop() {
	log.D("Stopping store controller...")

	// Cancel on context to stop the controller loop
	sc.cancel()

	// Wait for finishing
	sc.wg.Wait()
}

func (sc *Controller) Run() {
	log.I("(StoreC) Store controller started")

	// Increment WaitGroup BEFORE start separate goroutine
	sc.wg.Add(1)

	// Start store events loop
	go func() {
		for {
			select {
			// Wait for set of operations from watchers
			case ops := <-sc.opChan:
				// Apply operations to the store
				rv := sc.update(ops)
				if !rv.OK() {
					log.E("(StoreC) Update operations returned %d errors: {ERROR: %s}",
						len(rv.Errs()), rv.ErrsJoin("}, {ERROR: "))
				}

				log.I("(StoreC) Completed %d operations, %d records changed", len(ops), rv.Changed())

			// Wait for finish signal from context
			case <-sc.ctx.Done():
				// Call waitgroup from context
				sc.wg.Done()

				log.I("(StoreC) Store controller finished")

				// Exit from store controller loop
				return
			}
		}
	}()
}

func (sc *Controller) Channel() OpChan {
	return sc.opChan
}

func (sc *Controller) update(ops []*Operation) *types.CmdRV {
	// Summary return value
	rv := types.NewCmdRV()

	for _, op := range ops {
		// Skip operations that do not change anything to avoid useless disk writes
		if recPath, ok := sc.st.Get(op.Digest); ok && recPath == op.Path {
			continue
		}

		sc.st.Set(op.Digest, op.Path)
		rv.AddChanged(1)
	}

	// Nothing changed - nothing to persist
	if rv.Changed() == 0 {
		return rv
	}

	if err := sc.st.Save(); err != nil {
		rv.AddErr("cannot save store: %v", err)
	}

	return rv
}
