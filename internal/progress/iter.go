package progress

import "iter"

// Iter wraps a finite slice in a single-pass sequence that drives the
// session: the ceiling becomes len(items), Start runs before the first
// element, every consumed element reports its 0-based index via Advance,
// and Stop runs after the last element or when the consumer breaks early.
//
// Re-iterating requires a fresh call; the returned sequence restarts the
// session each time it is ranged over.
func Iter[T any](s *Session, items []T) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if len(items) > 0 {
			if err := s.SetMaxValue(float64(len(items))); err != nil {
				s.log.Warn("cannot size progress to sequence: %v", err)
			}
		}
		s.Start()
		defer s.Stop()

		for idx, v := range items {
			if s.IsRunning() {
				_ = s.Advance(float64(idx))
			}
			if !yield(idx, v) {
				return
			}
		}
	}
}
