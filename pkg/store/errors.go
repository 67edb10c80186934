package store

import (
	"errors"
	"fmt"
)

// PersistenceError tags a failure from the backing store with the operation being performed.
type PersistenceError struct {
	Op         string
	Underlying error
}

func (p *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %s", p.Op, p.Underlying.Error())
}

func (p *PersistenceError) Unwrap() error {
	return p.Underlying
}

// Wrap tags err with op.  Nil errors and errors already tagged pass through untouched.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *PersistenceError
	if errors.As(err, &existing) {
		return err
	}
	return &PersistenceError{Op: op, Underlying: err}
}

var ErrCursorClosed = errors.New("cursor closed")
var ErrNoCurrentRow = errors.New("cursor has no current row")
var ErrStatementClosed = errors.New("statement closed")
var ErrSessionClosed = errors.New("session closed")
