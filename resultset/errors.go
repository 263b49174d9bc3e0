package resultset

// DuplicateSeriesError is returned when a series name is registered twice
// within one run.
type DuplicateSeriesError string

func (e DuplicateSeriesError) Error() string {
	return string(e)
}

// IncompleteRunError is returned when a run that is not finalized (still
// building, or aborted) is used where only complete runs are allowed.
type IncompleteRunError string

func (e IncompleteRunError) Error() string {
	return string(e)
}

// FrozenRunError is returned when modifying a run after it completed.
type FrozenRunError string

func (e FrozenRunError) Error() string {
	return string(e)
}
