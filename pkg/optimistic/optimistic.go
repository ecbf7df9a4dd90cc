package optimistic

// Clone produces an independent copy of a value so a failed persist
// can restore the caller's view.
type Clone[T any] func(T) T

// Apply mutates the in-memory value before persistence is attempted.
type Apply[T any] func(*T)

// Persist writes the mutated value to durable storage.
type Persist[T any] func(T) error

// Update mutates value in place, attempts to persist the result, and
// restores the original value when persistence fails. The returned error
// is the persist error, untouched, so callers can translate it normally.
func Update[T any](value *T, clone Clone[T], apply Apply[T], persist Persist[T]) error {
	snapshot := clone(*value)
	apply(value)
	if err := persist(*value); err != nil {
		*value = snapshot
		return err
	}
	return nil
}

// UpdateAll applies the same mutation across a slice, persists once for the
// whole batch, and rolls every element back on failure.
func UpdateAll[T any](values []T, clone Clone[T], apply Apply[T], persist Persist[[]T]) error {
	snapshots := make([]T, len(values))
	for i := range values {
		snapshots[i] = clone(values[i])
		apply(&values[i])
	}
	if err := persist(values); err != nil {
		copy(values, snapshots)
		return err
	}
	return nil
}
