package faking

import (
	"strings"

	"github.com/go-faker/faker/v4"
)

type UniqueDomain[T comparable] struct {
	seen map[T]bool
	gen  func() T
}

func NewUniqueDomain[T comparable](gen func() T) *UniqueDomain[T] {
	return &UniqueDomain[T]{
		seen: make(map[T]bool),
		gen:  gen,
	}
}

func (u *UniqueDomain[T]) Next() T {
	for retry := 0; retry < 64; retry++ {
		value := u.gen()
		if !u.seen[value] {
			u.seen[value] = true
			return value
		}
	}
	panic("too many retries")
}

// NewUniqueTickers yields distinct upper case symbols of four letters.
func NewUniqueTickers() *UniqueDomain[string] {
	return NewUniqueDomain(func() string {
		var symbol strings.Builder
		for symbol.Len() < 4 {
			symbol.WriteString(faker.Word())
		}
		return strings.ToUpper(symbol.String()[:4])
	})
}
