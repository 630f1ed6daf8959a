package filesystem

import (
	"errors"
	"io/fs"
)

var (
	// ErrInvalidName rejects a name or path before the disk is touched
	ErrInvalidName = errors.New("invalid name")
	// ErrNotFound reports a missing file or directory, or one of the wrong kind
	ErrNotFound = errors.New("not found")
	// ErrIO covers every other failed filesystem call
	ErrIO = errors.New("filesystem operation failed")
)

// PathError records the operation and virtual path that failed. It matches
// both its kind and the underlying cause with errors.Is.
type PathError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *PathError) Error() string {
	msg := e.Op + " " + e.Path + ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PathError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalid(op, path string) error {
	return &PathError{Op: op, Path: path, Kind: ErrInvalidName}
}

func notFound(op, path string) error {
	return &PathError{Op: op, Path: path, Kind: ErrNotFound}
}

// wrap classifies an os error, treating fs.ErrNotExist as ErrNotFound.
func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PathError
	if errors.As(err, &pe) {
		return err
	}
	kind := ErrIO
	if errors.Is(err, fs.ErrNotExist) {
		kind = ErrNotFound
	}
	return &PathError{Op: op, Path: path, Kind: kind, Err: err}
}
