package tools

// Tern - ternary operator: returns ifTrue if cond is true, otherwise - ifFalse
func Tern[T any](cond bool, ifTrue, ifFalse T) T {
	if cond {
		return ifTrue
	}

	return ifFalse
}
