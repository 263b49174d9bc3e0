package series

// OutOfOrderError is returned when a sample's timestamp precedes the last
// appended one.
type OutOfOrderError string

func (e OutOfOrderError) Error() string {
	return string(e)
}

// FinalizedError is returned when appending to a frozen buffer.
type FinalizedError string

func (e FinalizedError) Error() string {
	return string(e)
}
