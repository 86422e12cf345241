/*
Package fsexpand is the file-expansion collaborator of the commands: it turns
the raw command line arguments into the final list of file paths. Commands
themselves never expand anything - shell globs are expanded by the shell,
directories are expanded here.
*/
package fsexpand

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/r-che/log"
)

// Expand returns the list of file paths produced from the command line
// arguments. Without recursive the arguments are returned unchanged. With
// recursive every argument that is a directory is replaced by the regular
// files found below it (in lexical order), other arguments are kept as is.
//
// Paths that cannot be inspected are kept in the output - the command
// itself will report the failure as a per-file ERROR outcome, expansion
// is not the place to hide it.
func Expand(paths []string, recursive bool) []string {
	if !recursive {
		return paths
	}

	expanded := make([]string, 0, len(paths))

	for _, path := range paths {
		oi, err := os.Stat(path)
		if err != nil {
			// Keep it - hashing of this path will produce the ERROR outcome
			expanded = append(expanded, path)
			continue
		}

		if !oi.IsDir() {
			expanded = append(expanded, path)
			continue
		}

		// Replace the directory argument by the regular files below it
		expanded = append(expanded, walkDir(path)...)
	}

	return expanded
}

func walkDir(dir string) []string {
	files := []string{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable subtree but keep walking the rest
			log.W("Cannot expand %q: %v", path, err)
			return nil
		}

		// Only regular files are subject to hashing, symbolic links
		// and special files are silently skipped
		if d.Type().IsRegular() {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		log.W("Expansion of directory %q failed: %v", dir, err)
	}

	return files
}
