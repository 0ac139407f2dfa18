package catalog

// BaselineID seeds identifier sequences for fresh catalogs, keeping
// system-assigned identifiers visually distinct from external feed ones.
const BaselineID = 100000

// Sequence hands out monotonically increasing identifiers for one catalog.
// Identifiers are never reused, even across runs: the sequence continues
// from the highest identifier the catalog has ever persisted.
type Sequence struct {
	next int
}

func NewSequence(maxExisting int) *Sequence {
	next := BaselineID
	if maxExisting >= BaselineID {
		next = maxExisting + 1
	}

	return &Sequence{next: next}
}

func (s *Sequence) Next() int {
	id := s.next
	s.next += 1

	return id
}

// Peek returns the identifier the next call to Next will assign.
func (s *Sequence) Peek() int {
	return s.next
}
