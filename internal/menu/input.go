package menu

import (
	"bufio"
	"context"
	"io"
)

// Input supplies whitespace separated tokens typed by the user.  Next returns io.EOF once input is exhausted.
type Input interface {
	Next(ctx context.Context) (string, error)
}

type scannerInput struct {
	scanner *bufio.Scanner
}

// NewScannerInput reads tokens synchronously from r.
func NewScannerInput(r io.Reader) Input {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	return &scannerInput{scanner: scanner}
}

func (s *scannerInput) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

type asyncInput struct {
	tokens chan string
	err    error
}

// NewAsyncInput reads tokens from r on a separate goroutine so a pending read never blocks cancellation.  The reader
// goroutine exits once r is exhausted.
func NewAsyncInput(r io.Reader) Input {
	a := &asyncInput{tokens: make(chan string)}
	go func() {
		defer close(a.tokens)
		scanner := bufio.NewScanner(r)
		scanner.Split(bufio.ScanWords)
		for scanner.Scan() {
			a.tokens <- scanner.Text()
		}
		a.err = scanner.Err()
	}()
	return a
}

func (a *asyncInput) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case token, ok := <-a.tokens:
		if !ok {
			if a.err != nil {
				return "", a.err
			}
			return "", io.EOF
		}
		return token, nil
	}
}
