package hasher

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/r-che/rememfile/types"

	"github.com/r-che/log"
)

// DirError - the path points to a directory, directories have no content digest
type DirError struct {
	Path string
}
func (e *DirError) Error() string {
	return fmt.Sprintf("%q is a directory", e.Path)
}

// Sum calculates the SHA-256 content digest of the file name. The file is read
// in bounded-size chunks, so memory usage does not depend on the file size.
// Identical content always produces an identical digest.
//
// Possible failures: the path does not exist or is unreadable - the underlying
// error wrapping fs.ErrNotExist/fs.ErrPermission is returned; the path is
// a directory - *DirError is returned.
func Sum(name string) (types.Digest, error) {
	// Get object information first to reject directories with a clear reason.
	// Stat (not Lstat) is used intentionally - symbolic links are hashed
	// by the content of their targets, exactly as Open would read them.
	oi, err := os.Stat(name)
	if err != nil {
		return "", err
	}

	if oi.IsDir() {
		return "", &DirError{Path: name}
	}

	log.D("Digest of %q - calculating...", name)

	// Open file to calculate digest of its content
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Hash content to calculate sum
	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", fmt.Errorf("cannot read %q: %w", name, err)
	}

	log.D("Digest of %q - done", name)

	// OK
	return types.Digest(fmt.Sprintf("%x", hash.Sum(nil))), nil
}
