package types

//
// CmdArgs - prepared arguments of a single command invocation
//
type CmdArgs struct {
	// File paths to process. Expansion (shell globs, recursive directory
	// walk) is the job of a collaborator layer - commands treat the list
	// as final and process it as is, duplicates included
	Paths	[]string

	// Number of concurrent hashing workers, 1 - pure sequential processing
	Workers	int
}

func NewCmdArgs(paths ...string) *CmdArgs {
	ps := make([]string, len(paths))
	copy(ps, paths)

	return &CmdArgs{
		Paths:		ps,
		Workers:	1,
	}
}

// SetWorkers sets the number of hashing workers, non-positive values are ignored
func (ca *CmdArgs) SetWorkers(n int) *CmdArgs {
	if n > 0 {
		ca.Workers = n
	}

	return ca
}

func (ca *CmdArgs) Clone() *CmdArgs {
	rv := *ca

	rv.Paths = make([]string, len(ca.Paths))
	copy(rv.Paths, ca.Paths)

	return &rv
}
