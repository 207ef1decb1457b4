package postgres

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestULIDGeneratorSortsWithinOneMillisecond(t *testing.T) {
	frozen := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	gen := NewULIDGeneratorWithClock(func() time.Time { return frozen })

	prev := gen.Generate()
	for i := 0; i < 100; i++ {
		next := gen.Generate()
		if next <= prev {
			t.Fatalf("expected %s to sort after %s", next, prev)
		}
		prev = next
	}

	id := ulid.MustParse(prev)
	if !ulid.Time(id.Time()).Equal(frozen) {
		t.Fatalf("expected timestamp %s, got %s", frozen, ulid.Time(id.Time()))
	}
}
