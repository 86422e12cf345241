/*

rememfile is a command line tool that remembers where a file with particular
content was last seen.

Usage:

  rememfile [Options] <action> [file ...]

# Actions

  * set (s)   - calculate the content digest of each given file and remember
    the file as the last known location of that content
  * get (g)   - calculate the content digest of each given file and print the
    last known location of a file with the same content
  * unset (u) - forget the records made for the given paths
  * clear (c) - forget all records
  * watch (w) - watch the given paths and keep their records fresh until stopped

# How it works

Records are keyed by the SHA-256 digest of the file content, not by the file
name. If a file is copied or moved and then registered from its new place,
looking up any copy of it returns the place registered last - the last known
location of that content.

Each result is printed as one line:

  CREATED <path>                   - set: content was not known before
  UPDATED <path>                   - set: content was known, location refreshed
  HIT <path> -> <recordedPath>     - get: content is known, recorded location printed
  MISS <path>                      - get: content was never registered
  DELETED <path>                   - unset: records of the path were removed
  NOENTRY <path>                   - unset: no records of the path exist
  ERROR <path>: <message>          - the file could not be processed

A failure of one file never prevents processing of the remaining files.

# Examples

  # Remember the current location of the photos:
  rememfile set ~/photos/*.jpg

  # Where was the file with this content seen before?
  rememfile get /mnt/backup/IMG_0042.jpg

  # Register all files under a directory tree:
  rememfile -r set ~/photos

  # Keep the records of a directory fresh in background:
  rememfile -l /var/log/rememfile.log watch ~/photos &

# Configuration file

By default, rememfile looks for the configuration file in
${HOME}/.rememfile/cli.json. You can specify path to the configuration file
using --cfg option. The file may set the location of the store file:

  {"Store": "/data/rememfile/store"}

The store location from the --store option overrides the configured value.
By default the store file is located in ${HOME}/.rememfile/store.

*/
package main
