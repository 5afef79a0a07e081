package board

// Result is the outcome of every board operation.
//
// When Usable is true, Data holds the payload the caller asked for.
// When Usable is false, Message is a final, user-displayable error that
// always ends in a period, Data is the zero value and Failure says what
// went wrong.
type Result[T any] struct {
	Message string
	Usable  bool
	Data    T
	Failure *Failure
}

// Err returns the failure as an error, or nil for a usable result.
func (r Result[T]) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

func success[T any](data T, msg string) Result[T] {
	return Result[T]{Message: msg, Usable: true, Data: data}
}

func failed[T any](f *Failure) Result[T] {
	return Result[T]{Message: f.Error(), Failure: f}
}
