package repository

import "iter"

// Filter yields the entities of seq accepted by keep. Errors pass through.
func Filter[T any](seq iter.Seq2[T, error], keep func(T) bool) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for v, err := range seq {
			if err != nil {
				if !yield(v, err) {
					return
				}
				continue
			}
			if keep(v) && !yield(v, nil) {
				return
			}
		}
	}
}

// Map converts the entities of seq. Errors pass through with a zero value.
func Map[T, U any](seq iter.Seq2[T, error], fn func(T) U) iter.Seq2[U, error] {
	return func(yield func(U, error) bool) {
		for v, err := range seq {
			if err != nil {
				var zero U
				if !yield(zero, err) {
					return
				}
				continue
			}
			if !yield(fn(v), nil) {
				return
			}
		}
	}
}

// Concat yields every element of seqs in order
func Concat[T any](seqs ...iter.Seq2[T, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, seq := range seqs {
			for v, err := range seq {
				if !yield(v, err) {
					return
				}
			}
		}
	}
}

// Empty is a sequence with no elements
func Empty[T any]() iter.Seq2[T, error] {
	return func(func(T, error) bool) {}
}

// Collect drains seq into a slice, stopping at the first error
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
