/*
File content remembering tool (rememfile) - remembers the files at specific
paths by their content and finds them later.

# Key Features

  * Persistent mapping between SHA-256 content digests and last-known file paths
  * Lookup of the recorded location of a file by its current content
  * Batch processing - one broken file does not interrupt the rest of the batch
  * Optional concurrent hashing of large batches
  * Watch mode - keeps recorded digests up to date while files change

# Key Components

  * rememfile - the command line tool, see cmd/rememfile
  * hasher    - streaming calculation of content digests
  * store     - the on-disk digest -> path mapping
  * commands  - set/get/unset/clear batch logic
  * watcher   - filesystem watchers used by the watch mode

See the corresponding subdirectories for more information about these components.

*/
package rememfile
