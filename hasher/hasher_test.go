package hasher

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/r-che/rememfile/types"
)

// Well-known SHA-256 value of the string "hello"
const helloSum = types.Digest("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824")

func TestSum(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "x.txt")
	if err := os.WriteFile(testFile, []byte("hello"), 0o600); err != nil {
		t.Errorf("cannot create test file %q: %v", testFile, err)
		t.FailNow()
	}

	sum, err := Sum(testFile)
	if err != nil {
		t.Errorf("Sum(%q) returned error: %v", testFile, err)
		t.FailNow()
	}

	if sum != helloSum {
		t.Errorf("Sum(%q) returned %q, want - %q", testFile, sum, helloSum)
	}

	if !sum.Valid() {
		t.Errorf("Sum(%q) returned digest %q that does not pass validation", testFile, sum)
	}
}

func TestSumIdenticalContent(t *testing.T) {
	// Byte-identical content in two distinct paths must produce the same digest
	tempDir := t.TempDir()
	content := []byte(strings.Repeat("some test data\n", 4096))

	files := []string{
		filepath.Join(tempDir, "first.dat"),
		filepath.Join(tempDir, "second.dat"),
	}
	sums := make([]types.Digest, 0, len(files))

	for _, file := range files {
		if err := os.WriteFile(file, content, 0o600); err != nil {
			t.Errorf("cannot create test file %q: %v", file, err)
			t.FailNow()
		}

		sum, err := Sum(file)
		if err != nil {
			t.Errorf("Sum(%q) returned error: %v", file, err)
			t.FailNow()
		}
		sums = append(sums, sum)
	}

	if sums[0] != sums[1] {
		t.Errorf("identical content produced different digests: %q and %q", sums[0], sums[1])
	}
}

func TestSumDifferentContent(t *testing.T) {
	tempDir := t.TempDir()

	file1 := filepath.Join(tempDir, "one.txt")
	file2 := filepath.Join(tempDir, "two.txt")
	if err := os.WriteFile(file1, []byte("content one"), 0o600); err != nil {
		t.Errorf("cannot create test file %q: %v", file1, err)
		t.FailNow()
	}
	if err := os.WriteFile(file2, []byte("content two"), 0o600); err != nil {
		t.Errorf("cannot create test file %q: %v", file2, err)
		t.FailNow()
	}

	sum1, err := Sum(file1)
	if err != nil {
		t.Errorf("Sum(%q) returned error: %v", file1, err)
		t.FailNow()
	}
	sum2, err := Sum(file2)
	if err != nil {
		t.Errorf("Sum(%q) returned error: %v", file2, err)
		t.FailNow()
	}

	if sum1 == sum2 {
		t.Errorf("different content produced the same digest %q", sum1)
	}
}

func TestSumNotExist(t *testing.T) {
	nxFile := filepath.Join(t.TempDir(), "this-file-does-not-exist")

	_, err := Sum(nxFile)
	switch {
	case err == nil:
		t.Errorf("Sum(%q) succeeded on non-existing file, but must not", nxFile)
	case errors.Is(err, fs.ErrNotExist):
		// Success, expected error
	default:
		t.Errorf("Sum(%q) returned unexpected error %T (%v), want fs.ErrNotExist", nxFile, err, err)
	}
}

func TestSumDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := Sum(dir)
	switch {
	case err == nil:
		t.Errorf("Sum(%q) succeeded on a directory, but must not", dir)
	case errors.As(err, new(*DirError)):
		// Success, expected error
	default:
		t.Errorf("Sum(%q) returned unexpected error %T (%v), want *DirError", dir, err, err)
	}
}

func TestSumNoPermissions(t *testing.T) {
	if os.Geteuid() == 0 {
		// Root reads everything, the case cannot be reproduced
		t.Skip("cannot test permission denial as root")
	}

	testFile := filepath.Join(t.TempDir(), "private.txt")
	if err := os.WriteFile(testFile, []byte("secret"), 0o000); err != nil {
		t.Errorf("cannot create test file %q: %v", testFile, err)
		t.FailNow()
	}

	_, err := Sum(testFile)
	switch {
	case err == nil:
		t.Errorf("Sum(%q) succeeded on unreadable file, but must not", testFile)
	case errors.Is(err, fs.ErrPermission):
		// Success, expected error
	default:
		t.Errorf("Sum(%q) returned unexpected error %T (%v), want fs.ErrPermission", testFile, err, err)
	}
}
