package commands

import (
	"path/filepath"
	"testing"

	"github.com/r-che/rememfile/types"
)

func TestGetHitAfterCopy(t *testing.T) {
	dir := t.TempDir()
	st := makeTestStore(t)

	// Content "hello" saved at <dir>/a/x.txt and recorded
	aDir := filepath.Join(dir, "a")
	bDir := filepath.Join(dir, "b")
	makeTestDir(t, aDir)
	makeTestDir(t, bDir)

	original := makeTestFile(t, aDir, "x.txt", "hello")

	rv := Set(st, types.NewCmdArgs(original))
	if !rv.OK() || rv.Outcomes()[0].State != types.Created {
		t.Errorf("set of the original file failed: %#v", rv)
		t.FailNow()
	}

	// The file is copied to <dir>/b/y.txt, get of the copy must HIT
	// and report the original location
	double := makeTestFile(t, bDir, "y.txt", "hello")

	rv = Get(st, types.NewCmdArgs(double))
	outcomes := rv.Outcomes()
	if len(outcomes) != 1 {
		t.Errorf("got %d outcomes, want - 1", len(outcomes))
		t.FailNow()
	}

	o := outcomes[0]
	if o.State != types.Hit {
		t.Errorf("get of the copy returned %v, want - HIT", o.State)
	}
	if o.RecPath != original {
		t.Errorf("recorded path is %q, want - %q", o.RecPath, original)
	}
	if rv.Found() != 1 {
		t.Errorf("found counter is %d, want - 1", rv.Found())
	}
}

func TestGetMiss(t *testing.T) {
	dir := t.TempDir()
	st := makeTestStore(t)

	// Content that was never recorded must produce MISS
	file := makeTestFile(t, dir, "unknown.txt", "never recorded content")

	rv := Get(st, types.NewCmdArgs(file))

	// MISS is not a failure
	if !rv.OK() {
		t.Errorf("get with a miss returned errors: %v", rv.Errs())
	}

	outcomes := rv.Outcomes()
	if len(outcomes) != 1 || outcomes[0].State != types.Miss {
		t.Errorf("got outcomes %#v, want a single MISS", outcomes)
	}
	if rv.Found() != 0 {
		t.Errorf("found counter is %d, want - 0", rv.Found())
	}
}

func TestGetContentAddressing(t *testing.T) {
	dir := t.TempDir()
	st := makeTestStore(t)

	// Two distinct paths with byte-identical content share the digest:
	// after setting both, get of either reports the one recorded last
	first := makeTestFile(t, dir, "first.txt", "shared content")
	second := makeTestFile(t, dir, "second.txt", "shared content")

	rv := Set(st, types.NewCmdArgs(first, second))
	outcomes := rv.Outcomes()
	if outcomes[0].State != types.Created || outcomes[1].State != types.Updated {
		t.Errorf("set of two identical files returned %v and %v, want - CREATED and UPDATED",
			outcomes[0].State, outcomes[1].State)
	}
	if outcomes[0].Digest != outcomes[1].Digest {
		t.Errorf("identical files have different digests: %q and %q",
			outcomes[0].Digest, outcomes[1].Digest)
	}

	for _, file := range []string{first, second} {
		rv = Get(st, types.NewCmdArgs(file))
		o := rv.Outcomes()[0]
		if o.State != types.Hit {
			t.Errorf("get of %q returned %v, want - HIT", file, o.State)
			continue
		}
		if o.RecPath != second {
			t.Errorf("get of %q resolved to %q, want the last recorded path %q", file, o.RecPath, second)
		}
	}
}

func TestGetFileError(t *testing.T) {
	dir := t.TempDir()
	st := makeTestStore(t)

	good := makeTestFile(t, dir, "good.txt", "data")
	Set(st, types.NewCmdArgs(good))

	nxFile := filepath.Join(dir, "missing.txt")
	rv := Get(st, types.NewCmdArgs(good, nxFile))

	outcomes := rv.Outcomes()
	if len(outcomes) != 2 {
		t.Errorf("got %d outcomes, want - 2", len(outcomes))
		t.FailNow()
	}
	if outcomes[0].State != types.Hit {
		t.Errorf("good file outcome is %v, want - HIT", outcomes[0].State)
	}
	if outcomes[1].State != types.OpError {
		t.Errorf("missing file outcome is %v, want - ERROR", outcomes[1].State)
	}

	// A lookup failure of a particular file is a warning, not an error -
	// the store itself is fine
	if !rv.OK() {
		t.Errorf("get with an unreadable file reported errors: %v", rv.Errs())
	}
	if len(rv.Warns()) == 0 {
		t.Errorf("get with an unreadable file produced no warnings")
	}
}
