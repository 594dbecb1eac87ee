package booking

import (
	"testing"

	apperrors "mediq/pkg/errors"
	"mediq/pkg/model"
)

func mustFor(t *testing.T, mode model.BookingMode, maxBookings int) Discipline {
	t.Helper()
	d, err := For(mode, maxBookings)
	if err != nil {
		t.Fatalf("For(%s, %d): %v", mode, maxBookings, err)
	}
	return d
}

func TestFor_UnknownMode(t *testing.T) {
	if _, err := For("drip", 0); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestFor_WaveRequiresCapacity(t *testing.T) {
	if _, err := For(model.ModeWave, 0); err == nil {
		t.Error("expected error for wave without capacity")
	}
}

func TestStream_BookAndConflict(t *testing.T) {
	d := mustFor(t, model.ModeStream, 0)
	slot := &model.Slot{Mode: model.ModeStream}

	if err := d.Book(slot); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if !slot.IsBooked || slot.BookingCount != 1 {
		t.Errorf("after booking: isBooked=%v count=%d, want true/1", slot.IsBooked, slot.BookingCount)
	}

	err := d.Book(slot)
	if err == nil {
		t.Fatal("expected conflict on double booking")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %s", apperrors.AsAppError(err).Code)
	}
	// Slot state must be unchanged by the failed booking.
	if slot.BookingCount != 1 || !slot.IsBooked {
		t.Errorf("failed booking mutated slot: isBooked=%v count=%d", slot.IsBooked, slot.BookingCount)
	}
}

func TestStream_ReleaseRoundTrip(t *testing.T) {
	d := mustFor(t, model.ModeStream, 0)
	slot := &model.Slot{Mode: model.ModeStream}

	if err := d.Book(slot); err != nil {
		t.Fatal(err)
	}
	d.Release(slot)
	if slot.IsBooked || slot.BookingCount != 0 {
		t.Errorf("after release: isBooked=%v count=%d, want false/0", slot.IsBooked, slot.BookingCount)
	}

	// Re-booking a previously booked slot restores the exact booked state.
	if err := d.Book(slot); err != nil {
		t.Fatalf("re-booking released slot failed: %v", err)
	}
	if !slot.IsBooked || slot.BookingCount != 1 {
		t.Errorf("after re-booking: isBooked=%v count=%d, want true/1", slot.IsBooked, slot.BookingCount)
	}
}

func TestStream_InvariantUnderSequences(t *testing.T) {
	d := mustFor(t, model.ModeStream, 0)
	slot := &model.Slot{Mode: model.ModeStream}

	ops := []string{"book", "book", "release", "release", "book", "release", "book"}
	for i, op := range ops {
		if op == "book" {
			_ = d.Book(slot)
		} else {
			d.Release(slot)
		}
		if slot.IsBooked != (slot.BookingCount == 1) {
			t.Fatalf("op %d (%s): isBooked=%v but count=%d", i, op, slot.IsBooked, slot.BookingCount)
		}
		if slot.BookingCount != 0 && slot.BookingCount != 1 {
			t.Fatalf("op %d (%s): stream count out of {0,1}: %d", i, op, slot.BookingCount)
		}
	}
}

func TestWave_FillsToCapacity(t *testing.T) {
	const capacity = 3
	d := mustFor(t, model.ModeWave, capacity)
	slot := &model.Slot{Mode: model.ModeWave}

	for i := 1; i <= capacity; i++ {
		if err := d.Book(slot); err != nil {
			t.Fatalf("booking %d failed: %v", i, err)
		}
		if slot.BookingCount != i {
			t.Errorf("after booking %d: count=%d", i, slot.BookingCount)
		}
		wantBooked := i == capacity
		if slot.IsBooked != wantBooked {
			t.Errorf("after booking %d: isBooked=%v, want %v", i, slot.IsBooked, wantBooked)
		}
	}

	err := d.Book(slot)
	if err == nil {
		t.Fatal("expected conflict at capacity")
	}
	if slot.BookingCount != capacity {
		t.Errorf("failed booking mutated count: %d", slot.BookingCount)
	}
}

func TestWave_ReleaseFreesCapacityImmediately(t *testing.T) {
	d := mustFor(t, model.ModeWave, 2)
	slot := &model.Slot{Mode: model.ModeWave}

	_ = d.Book(slot)
	_ = d.Book(slot)
	if !slot.IsBooked {
		t.Fatal("expected slot at capacity to be booked")
	}

	d.Release(slot)
	if slot.IsBooked {
		t.Error("one cancellation must reopen the slot")
	}
	if !d.HasRoom(slot) {
		t.Error("freed capacity must be bookable immediately")
	}
	if err := d.Book(slot); err != nil {
		t.Errorf("booking freed capacity failed: %v", err)
	}
}

func TestWave_ReleaseFloorsAtZero(t *testing.T) {
	d := mustFor(t, model.ModeWave, 2)
	slot := &model.Slot{Mode: model.ModeWave}

	d.Release(slot)
	d.Release(slot)
	if slot.BookingCount != 0 || slot.IsBooked {
		t.Errorf("releasing empty slot: count=%d isBooked=%v", slot.BookingCount, slot.IsBooked)
	}
}

func TestWave_InvariantUnderSequences(t *testing.T) {
	const capacity = 2
	d := mustFor(t, model.ModeWave, capacity)
	slot := &model.Slot{Mode: model.ModeWave}

	ops := []string{"book", "book", "book", "release", "book", "release", "release", "release", "book"}
	for i, op := range ops {
		if op == "book" {
			_ = d.Book(slot)
		} else {
			d.Release(slot)
		}
		if slot.BookingCount < 0 || slot.BookingCount > capacity {
			t.Fatalf("op %d (%s): count out of range: %d", i, op, slot.BookingCount)
		}
		if slot.IsBooked != (slot.BookingCount == capacity) {
			t.Fatalf("op %d (%s): isBooked=%v but count=%d/%d", i, op, slot.IsBooked, slot.BookingCount, capacity)
		}
	}
}
