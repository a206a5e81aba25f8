package idgen

import (
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestULIDGeneratorProducesSortableIDs(t *testing.T) {
	gen := NewULIDGenerator()

	prev := gen.Generate()
	for i := 0; i < 100; i++ {
		next := gen.Generate()
		if _, err := ulid.Parse(next); err != nil {
			t.Fatalf("invalid ulid %q: %v", next, err)
		}
		if next <= prev {
			t.Fatalf("expected %q to sort after %q", next, prev)
		}
		prev = next
	}
}
