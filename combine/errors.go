package combine

// UnknownModeError is returned for an unrecognized combine-mode string.
type UnknownModeError string

func (e UnknownModeError) Error() string {
	return string(e)
}

// EmptyResultSetError is returned when a combine request targets a result set
// with no runs.
type EmptyResultSetError string

func (e EmptyResultSetError) Error() string {
	return string(e)
}
