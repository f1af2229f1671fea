package configs

import (
	"errors"
	"fmt"
	"iter"
)

// Get decodes the first value at path. ok is false when no document defines it.
func Get[T any](loader Loader, path string) (value T, ok bool, err error) {
	err = loader.AssignFirst(path, &value)
	if errors.Is(err, ErrValueNotFound) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("config %s: %w", path, err)
	}
	return value, true, nil
}

// First is Get for values that must decode. Absent values are zero.
func First[T any](loader Loader, path string) T {
	value, _, err := Get[T](loader, path)
	if err != nil {
		panic(err)
	}
	return value
}

// All decodes the values at path from every document, most specific first.
func All[T any](loader Loader, path string) iter.Seq[T] {
	return func(yield func(T) bool) {
		for value, err := range loader.IterCueValues(path) {
			if err != nil {
				panic(err)
			}
			var v T
			if err := value.Decode(&v); err != nil {
				panic(fmt.Errorf("config %s: %w", path, err))
			}
			if !yield(v) {
				break
			}
		}
	}
}
