package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/r-che/rememfile/store"
	"github.com/r-che/rememfile/types"
)

// makeTestFile creates a file with the content in the test temporary directory
func makeTestFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Errorf("cannot create test file %q: %v", path, err)
		t.FailNow()
	}

	return path
}

func makeTestDir(t *testing.T, dir string) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Errorf("cannot create test directory %q: %v", dir, err)
		t.FailNow()
	}
}

func makeTestStore(t *testing.T) *store.Store {
	return store.New(filepath.Join(t.TempDir(), "store"))
}

func TestSetIdempotence(t *testing.T) {
	dir := t.TempDir()
	st := makeTestStore(t)

	file := makeTestFile(t, dir, "x.txt", "hello")

	// The first set of a fresh file must produce CREATED
	rv := Set(st, types.NewCmdArgs(file))
	if !rv.OK() {
		t.Errorf("set returned errors: %v", rv.Errs())
		t.FailNow()
	}
	outcomes := rv.Outcomes()
	if len(outcomes) != 1 || outcomes[0].State != types.Created {
		t.Errorf("first set returned outcomes %#v, want a single CREATED", outcomes)
		t.FailNow()
	}

	// The second set of unchanged content must produce UPDATED
	rv = Set(st, types.NewCmdArgs(file))
	outcomes = rv.Outcomes()
	if len(outcomes) != 1 || outcomes[0].State != types.Updated {
		t.Errorf("second set returned outcomes %#v, want a single UPDATED", outcomes)
		t.FailNow()
	}

	// The recorded path must be the file itself both times
	recPath, ok := st.Get(outcomes[0].Digest)
	if !ok {
		t.Errorf("digest %q is not in the store after set", outcomes[0].Digest)
		t.FailNow()
	}
	if recPath != file {
		t.Errorf("recorded path is %q, want - %q", recPath, file)
	}
}

func TestSetErrorIsolation(t *testing.T) {
	dir := t.TempDir()
	st := makeTestStore(t)

	goodFile := makeTestFile(t, dir, "good.txt", "good content")
	nxFile := filepath.Join(dir, "missing.txt")

	rv := Set(st, types.NewCmdArgs(goodFile, nxFile))

	// A batch with a failed file is not fully successful
	if rv.OK() {
		t.Errorf("set with a missing file reported OK, but must not")
	}

	outcomes := rv.Outcomes()
	if len(outcomes) != 2 {
		t.Errorf("got %d outcomes, want - 2", len(outcomes))
		t.FailNow()
	}

	// The good file was processed despite the bad one
	if outcomes[0].State != types.Created {
		t.Errorf("good file outcome is %v, want - CREATED", outcomes[0].State)
	}
	if outcomes[1].State != types.OpError {
		t.Errorf("missing file outcome is %v, want - ERROR", outcomes[1].State)
	}
	if outcomes[1].Err == nil {
		t.Errorf("ERROR outcome carries no reason")
	}

	// The good record must have been persisted
	reloaded := store.New(st.Path())
	if err := reloaded.Load(); err != nil {
		t.Errorf("cannot reload store: %v", err)
		t.FailNow()
	}
	if recPath, ok := reloaded.Get(outcomes[0].Digest); !ok || recPath != goodFile {
		t.Errorf("good file record was not persisted: got - (%q, %t)", recPath, ok)
	}
}

func TestSetEmptyInput(t *testing.T) {
	st := makeTestStore(t)

	rv := Set(st, types.NewCmdArgs())

	if !rv.OK() {
		t.Errorf("set of empty path list returned errors: %v", rv.Errs())
	}
	if len(rv.Outcomes()) != 0 {
		t.Errorf("set of empty path list returned outcomes: %#v", rv.Outcomes())
	}

	// Nothing was recorded - the store file must not have been created
	if _, err := os.Stat(st.Path()); err == nil {
		t.Errorf("set of empty path list created the store file %q", st.Path())
	}
}

func TestSetDuplicatedPath(t *testing.T) {
	dir := t.TempDir()
	st := makeTestStore(t)

	file := makeTestFile(t, dir, "x.txt", "same content")

	// The same path twice in one batch is processed twice independently
	rv := Set(st, types.NewCmdArgs(file, file))

	outcomes := rv.Outcomes()
	if len(outcomes) != 2 {
		t.Errorf("got %d outcomes, want - 2", len(outcomes))
		t.FailNow()
	}
	if outcomes[0].State != types.Created {
		t.Errorf("first occurrence outcome is %v, want - CREATED", outcomes[0].State)
	}
	if outcomes[1].State != types.Updated {
		t.Errorf("second occurrence outcome is %v, want - UPDATED", outcomes[1].State)
	}
}

func TestSetChangedContent(t *testing.T) {
	dir := t.TempDir()
	st := makeTestStore(t)

	file := makeTestFile(t, dir, "x.txt", "original content")

	rv := Set(st, types.NewCmdArgs(file))
	oldDigest := rv.Outcomes()[0].Digest
	if rv.Outcomes()[0].State != types.Created {
		t.Errorf("first set outcome is %v, want - CREATED", rv.Outcomes()[0].State)
	}

	// Change the content of the same path - the new digest is unknown
	// to the store, so the second set must produce CREATED again
	makeTestFile(t, dir, "x.txt", "changed content")

	rv = Set(st, types.NewCmdArgs(file))
	newDigest := rv.Outcomes()[0].Digest
	if rv.Outcomes()[0].State != types.Created {
		t.Errorf("set of changed content outcome is %v, want - CREATED", rv.Outcomes()[0].State)
	}
	if newDigest == oldDigest {
		t.Errorf("changed content produced the same digest %q", newDigest)
	}

	// The old record stays in the store under its own digest
	if recPath, ok := st.Get(oldDigest); !ok || recPath != file {
		t.Errorf("old record is gone after content change: got - (%q, %t)", recPath, ok)
	}

	// And the current content resolves to the same path
	if recPath, ok := st.Get(newDigest); !ok || recPath != file {
		t.Errorf("new record is wrong: got - (%q, %t), want - (%q, true)", recPath, ok, file)
	}
}

func TestSetConcurrentWorkersOrder(t *testing.T) {
	dir := t.TempDir()
	st := makeTestStore(t)

	// Many files with distinct contents hashed by several workers -
	// outcomes must follow the input order regardless of completion order
	const nFiles = 50
	paths := make([]string, 0, nFiles)
	for i := 0; i < nFiles; i++ {
		paths = append(paths,
			makeTestFile(t, dir, fmt.Sprintf("file-%03d.txt", i), fmt.Sprintf("content #%d", i)))
	}

	rv := Set(st, types.NewCmdArgs(paths...).SetWorkers(8))
	if !rv.OK() {
		t.Errorf("set returned errors: %v", rv.Errs())
		t.FailNow()
	}

	outcomes := rv.Outcomes()
	if len(outcomes) != nFiles {
		t.Errorf("got %d outcomes, want - %d", len(outcomes), nFiles)
		t.FailNow()
	}

	for i, o := range outcomes {
		if o.Path != paths[i] {
			t.Errorf("[%d] outcome path %q breaks the input order, want - %q", i, o.Path, paths[i])
		}
		if o.State != types.Created {
			t.Errorf("[%d] outcome state is %v, want - CREATED", i, o.State)
		}
	}

	if st.Len() != nFiles {
		t.Errorf("store contains %d records, want - %d", st.Len(), nFiles)
	}
}
