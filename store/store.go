/*
Package store implements the persistent digest -> last-known-path mapping.

The mapping is kept in a single text file. The first line is the format
header - the format name and the digest algorithm:

	rememfile/v1 sha256

Every following line is one record - the hexadecimal digest and the recorded
path separated by a tab. The path is quoted (Go string literal syntax), so
any valid filesystem path round-trips losslessly, whitespace included:

	2cf24dba...9824	"/home/user/some dir/x.txt"

Records are written sorted by digest to keep the file diffable. Any
structural damage of the file - missing or unknown header, wrong digest
algorithm, unparsable record, duplicated digest - makes Load fail with
*CorruptError. This is deliberate: silently skipping a damaged record would
turn into false lookup misses later, a loud failure is cheaper to act on.

Save always writes a temporary file in the store directory and renames it
over the old one, so a crash in the middle of a write never leaves a store
that cannot be parsed.
*/
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/r-che/rememfile/common/fschecks"
	"github.com/r-che/rememfile/types"

	"github.com/r-che/log"
)

const (
	// Store format name, the first field of the header line
	formatName = `rememfile/v1`

	// Separator between the digest and the quoted path in a record line
	recordSep = "\t"

	// The store contains paths of the user's files - keep it private
	storeFileMode = 0o600
	storeDirMode = 0o700
)

// CorruptError - the store file exists but cannot be trusted
type CorruptError struct {
	File	string
	Line	int
	Reason	string
}
func (e *CorruptError) Error() string {
	return fmt.Sprintf("store file %q is corrupted at line %d: %s", e.File, e.Line, e.Reason)
}

// Record - one (digest, path) entry of the store
type Record struct {
	Digest	types.Digest
	Path	string
}

//
// Store - in-memory digest -> path mapping bound to its on-disk file
//
type Store struct {
	path	string
	m		map[types.Digest]string

	// Advisory lock file, non-nil between Lock and Unlock
	lockFile	*os.File
}

// New returns an empty store bound to the file path
func New(path string) *Store {
	return &Store{
		path:	path,
		m:		map[types.Digest]string{},
	}
}

// Path returns the location of the on-disk store file
func (s *Store) Path() string {
	return s.path
}

// Load reads the on-disk file into the store. A missing file is not an
// error - it is the first run, the store is left empty. A file that exists
// but cannot be parsed produces *CorruptError.
func (s *Store) Load() error {
	f, err := os.Open(s.path)
	if err != nil {
		// Is file not exist?
		if errors.Is(err, fs.ErrNotExist) {
			// OK, treat this as the first run with an empty store
			log.D("No store file exists in %q - starting with an empty store", s.path)
			return nil
		}

		// Something went wrong
		return fmt.Errorf("cannot open store file %q: %w", s.path, err)
	}
	defer f.Close()

	// The store enumerates the user's files - it should not be public-readable.
	// Unlike the program configuration this is not fatal, the file is still usable
	if err := fschecks.PrivOwnership(s.path); err != nil {
		log.W("Store file %q failed the ownership/permissions check: %v", s.path, err)
	}

	lineN := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineN++

		// The first line must be the format header
		if lineN == 1 {
			if err := s.checkHeader(scanner.Text()); err != nil {
				return err
			}
			continue
		}

		// Parse the record line
		digest, path, err := s.parseRecord(scanner.Text(), lineN)
		if err != nil {
			return err
		}

		// Keys must be unique - a duplicate means the file was tampered with
		if _, ok := s.m[digest]; ok {
			return &CorruptError{File: s.path, Line: lineN,
				Reason: fmt.Sprintf("duplicated digest %q", digest)}
		}

		s.m[digest] = path
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("cannot read store file %q: %w", s.path, err)
	}

	// A store file without even a header line cannot be trusted
	if lineN == 0 {
		return &CorruptError{File: s.path, Line: 0, Reason: "missing format header"}
	}

	log.D("Loaded %d records from %q", len(s.m), s.path)

	// OK
	return nil
}

func (s *Store) checkHeader(line string) error {
	fields := strings.SplitN(line, " ", 2)

	if fields[0] != formatName {
		return &CorruptError{File: s.path, Line: 1,
			Reason: fmt.Sprintf("unsupported store format %q, want - %q", fields[0], formatName)}
	}

	// The digest algorithm is a part of the format: digests recorded with
	// a different algorithm can never match freshly calculated ones, such
	// a store must be rejected instead of producing silent misses
	if len(fields) != 2 || fields[1] != types.SumAlg {
		alg := ""
		if len(fields) == 2 {
			alg = fields[1]
		}
		return &CorruptError{File: s.path, Line: 1,
			Reason: fmt.Sprintf("store records digests of algorithm %q but this build uses %q", alg, types.SumAlg)}
	}

	// OK
	return nil
}

func (s *Store) parseRecord(line string, lineN int) (types.Digest, string, error) {
	sepIdx := strings.Index(line, recordSep)
	if sepIdx < 0 {
		return "", "", &CorruptError{File: s.path, Line: lineN, Reason: "no field separator in record"}
	}

	digest := types.Digest(line[:sepIdx])
	if !digest.Valid() {
		return "", "", &CorruptError{File: s.path, Line: lineN,
			Reason: fmt.Sprintf("invalid digest %q", line[:sepIdx])}
	}

	path, err := strconv.Unquote(line[sepIdx+1:])
	if err != nil {
		return "", "", &CorruptError{File: s.path, Line: lineN,
			Reason: fmt.Sprintf("invalid path field %s: %v", line[sepIdx+1:], err)}
	}

	return digest, path, nil
}

// Save atomically replaces the on-disk file by the current content of the
// store: the new content is written to a temporary file in the store
// directory which is then renamed over the old one
func (s *Store) Save() error {
	// The store directory may not exist yet - the very first "set" creates it
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, storeDirMode); err != nil {
		return fmt.Errorf("cannot create store directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".store-")
	if err != nil {
		return fmt.Errorf("cannot create temporary store file in %q: %w", dir, err)
	}

	// Remove the temporary file if anything below fails
	ok := false
	defer func() {
		if !ok {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := s.writeTo(tmp); err != nil {
		return fmt.Errorf("cannot write temporary store file %q: %w", tmp.Name(), err)
	}

	if err := tmp.Chmod(storeFileMode); err != nil {
		return fmt.Errorf("cannot set mode of temporary store file %q: %w", tmp.Name(), err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot close temporary store file %q: %w", tmp.Name(), err)
	}

	// Replace the old store by the new one
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("cannot replace store file %q: %w", s.path, err)
	}
	ok = true

	log.D("Saved %d records to %q", len(s.m), s.path)

	// OK
	return nil
}

func (s *Store) writeTo(f *os.File) error {
	w := bufio.NewWriter(f)

	// Format header
	fmt.Fprintf(w, "%s %s\n", formatName, types.SumAlg)

	// Records, sorted by digest for a stable diffable output
	for _, rec := range s.Records() {
		fmt.Fprintf(w, "%s%s%s\n", rec.Digest, recordSep, strconv.Quote(rec.Path))
	}

	return w.Flush()
}

// Get returns the recorded path of the digest
func (s *Store) Get(digest types.Digest) (string, bool) {
	path, ok := s.m[digest]
	return path, ok
}

// Set inserts or unconditionally overwrites the record of the digest.
// The change is purely in-memory until Save is called.
func (s *Store) Set(digest types.Digest, path string) {
	s.m[digest] = path
}

// Del removes the record of the digest, returns true if it existed
func (s *Store) Del(digest types.Digest) bool {
	if _, ok := s.m[digest]; !ok {
		return false
	}

	delete(s.m, digest)

	return true
}

// DelByPath removes every record whose recorded path equals path
// and returns the number of removed records
func (s *Store) DelByPath(path string) int {
	deleted := 0

	for digest, recPath := range s.m {
		if recPath == path {
			delete(s.m, digest)
			deleted++
		}
	}

	return deleted
}

// Clear removes all records and returns the number of removed records
func (s *Store) Clear() int {
	n := len(s.m)
	s.m = map[types.Digest]string{}

	return n
}

// Len returns the number of records in the store
func (s *Store) Len() int {
	return len(s.m)
}

// Records returns all records sorted by digest
func (s *Store) Records() []Record {
	recs := make([]Record, 0, len(s.m))
	for digest, path := range s.m {
		recs = append(recs, Record{Digest: digest, Path: path})
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Digest < recs[j].Digest
	})

	return recs
}
