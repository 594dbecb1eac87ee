package planner

import (
	"testing"

	"mediq/pkg/model"
	"mediq/pkg/timewindow"
)

func mustInterval(t *testing.T, start, end string) timewindow.Interval {
	t.Helper()
	iv, err := timewindow.NewInterval(start, end)
	if err != nil {
		t.Fatalf("NewInterval(%s, %s): %v", start, end, err)
	}
	return iv
}

func slot(start, end string) *model.Slot {
	return &model.Slot{StartTime: start, EndTime: end}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		current  [2]string
		proposed [2]string
		want     Shape
	}{
		{"disjoint after", [2]string{"09:00", "12:00"}, [2]string{"14:00", "17:00"}, Outside},
		{"disjoint before", [2]string{"09:00", "12:00"}, [2]string{"06:00", "08:00"}, Outside},
		{"touching boundaries are disjoint", [2]string{"09:00", "12:00"}, [2]string{"12:00", "15:00"}, Outside},
		{"contained shorter", [2]string{"09:00", "12:00"}, [2]string{"10:00", "11:00"}, Shrunk},
		{"same start shorter", [2]string{"09:00", "12:00"}, [2]string{"09:00", "10:30"}, Shrunk},
		{"extends end", [2]string{"09:00", "12:00"}, [2]string{"09:00", "14:00"}, Expanded},
		{"extends start", [2]string{"09:00", "12:00"}, [2]string{"08:00", "12:00"}, Expanded},
		{"extends both", [2]string{"09:00", "12:00"}, [2]string{"08:00", "13:00"}, Expanded},
		{"shifted overlap", [2]string{"09:00", "12:00"}, [2]string{"10:00", "13:00"}, Expanded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := mustInterval(t, tt.current[0], tt.current[1])
			proposed := mustInterval(t, tt.proposed[0], tt.proposed[1])
			if got := Classify(current, proposed); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReshape_Outside(t *testing.T) {
	current := mustInterval(t, "09:00", "11:00")
	proposed := mustInterval(t, "14:00", "16:00")
	existing := []*model.Slot{slot("09:00", "10:00"), slot("10:00", "11:00")}

	plan := Reshape(current, proposed, existing, 60)

	if plan.Shape != Outside {
		t.Fatalf("Shape = %v, want %v", plan.Shape, Outside)
	}
	if len(plan.Keep) != 0 {
		t.Errorf("Keep = %d slots, want 0", len(plan.Keep))
	}
	if len(plan.Delete) != 2 {
		t.Errorf("Delete = %d slots, want 2", len(plan.Delete))
	}
	if len(plan.Create) != 2 {
		t.Fatalf("Create = %d slots, want 2", len(plan.Create))
	}
	if plan.Create[0].StartTime != "14:00" || plan.Create[1].StartTime != "15:00" {
		t.Errorf("Create times = %s, %s", plan.Create[0].StartTime, plan.Create[1].StartTime)
	}
	for _, s := range plan.Create {
		if !s.IsElastic {
			t.Error("created slot not marked elastic")
		}
	}
}

func TestReshape_Shrunk(t *testing.T) {
	current := mustInterval(t, "09:00", "12:00")
	proposed := mustInterval(t, "09:00", "10:30")
	existing := []*model.Slot{
		slot("09:00", "09:30"),
		slot("09:30", "10:00"),
		slot("10:00", "10:30"),
		slot("10:30", "11:00"),
		slot("11:00", "11:30"),
		slot("11:30", "12:00"),
	}

	plan := Reshape(current, proposed, existing, 30)

	if plan.Shape != Shrunk {
		t.Fatalf("Shape = %v, want %v", plan.Shape, Shrunk)
	}
	if len(plan.Keep) != 3 {
		t.Errorf("Keep = %d slots, want 3", len(plan.Keep))
	}
	if len(plan.Delete) != 3 {
		t.Errorf("Delete = %d slots, want 3", len(plan.Delete))
	}
	if len(plan.Create) != 0 {
		t.Errorf("Create = %d slots, want 0", len(plan.Create))
	}
}

func TestReshape_ExpandedBothSides(t *testing.T) {
	current := mustInterval(t, "09:00", "11:00")
	proposed := mustInterval(t, "08:00", "12:30")
	existing := []*model.Slot{slot("09:00", "10:00"), slot("10:00", "11:00")}

	plan := Reshape(current, proposed, existing, 60)

	if plan.Shape != Expanded {
		t.Fatalf("Shape = %v, want %v", plan.Shape, Expanded)
	}
	if len(plan.Keep) != 2 {
		t.Errorf("Keep = %d slots, want 2", len(plan.Keep))
	}
	if len(plan.Delete) != 0 {
		t.Errorf("Delete = %d slots, want 0", len(plan.Delete))
	}
	// one slot 08:00-09:00 before, one slot 11:00-12:00 after; the
	// 12:00-12:30 remainder is shorter than the slot duration and dropped
	if len(plan.Create) != 2 {
		t.Fatalf("Create = %d slots, want 2", len(plan.Create))
	}
	if plan.Create[0].StartTime != "08:00" || plan.Create[0].EndTime != "09:00" {
		t.Errorf("leading slot = %s-%s", plan.Create[0].StartTime, plan.Create[0].EndTime)
	}
	if plan.Create[1].StartTime != "11:00" || plan.Create[1].EndTime != "12:00" {
		t.Errorf("trailing slot = %s-%s", plan.Create[1].StartTime, plan.Create[1].EndTime)
	}
}

func TestReshape_ShiftedOverlapDeletesOutOfWindowSlots(t *testing.T) {
	current := mustInterval(t, "09:00", "11:00")
	proposed := mustInterval(t, "10:00", "13:00")
	existing := []*model.Slot{slot("09:00", "10:00"), slot("10:00", "11:00")}

	plan := Reshape(current, proposed, existing, 60)

	if plan.Shape != Expanded {
		t.Fatalf("Shape = %v, want %v", plan.Shape, Expanded)
	}
	if len(plan.Delete) != 1 || plan.Delete[0].StartTime != "09:00" {
		t.Fatalf("Delete = %+v, want the 09:00 slot", plan.Delete)
	}
	if len(plan.Keep) != 1 || plan.Keep[0].StartTime != "10:00" {
		t.Fatalf("Keep = %+v, want the 10:00 slot", plan.Keep)
	}
	if len(plan.Create) != 2 {
		t.Fatalf("Create = %d slots, want 2 (11:00 and 12:00)", len(plan.Create))
	}
	if plan.Create[0].StartTime != "11:00" || plan.Create[1].StartTime != "12:00" {
		t.Errorf("Create times = %s, %s", plan.Create[0].StartTime, plan.Create[1].StartTime)
	}
}

func TestReshape_RepeatedExpandSkipsExistingSlots(t *testing.T) {
	// Second, wider expansion of an already reshaped window. The elastic
	// slots from the first pass are loaded as existing, so retiling the
	// uncovered region must not recreate them.
	current := mustInterval(t, "09:00", "10:00")
	proposed := mustInterval(t, "09:00", "12:00")
	existing := []*model.Slot{
		slot("09:00", "09:30"),
		slot("09:30", "10:00"),
		{StartTime: "10:00", EndTime: "10:30", IsElastic: true},
		{StartTime: "10:30", EndTime: "11:00", IsElastic: true},
	}

	plan := Reshape(current, proposed, existing, 30)

	if plan.Shape != Expanded {
		t.Fatalf("Shape = %v, want %v", plan.Shape, Expanded)
	}
	if len(plan.Keep) != 4 {
		t.Errorf("Keep = %d slots, want 4", len(plan.Keep))
	}
	if len(plan.Delete) != 0 {
		t.Errorf("Delete = %d slots, want 0", len(plan.Delete))
	}
	if len(plan.Create) != 2 {
		t.Fatalf("Create = %d slots, want 2", len(plan.Create))
	}
	if plan.Create[0].StartTime != "11:00" || plan.Create[1].StartTime != "11:30" {
		t.Errorf("Create times = %s, %s, want 11:00 and 11:30",
			plan.Create[0].StartTime, plan.Create[1].StartTime)
	}

	seen := map[string]int{}
	for _, s := range plan.Keep {
		seen[s.Key()]++
	}
	for _, s := range plan.Create {
		seen[s.Key()]++
	}
	for key, n := range seen {
		if n > 1 {
			t.Errorf("slot %s planned %d times", key, n)
		}
	}
}

func TestReshape_NewSlotsNeverOverlapKeptSlots(t *testing.T) {
	current := mustInterval(t, "09:00", "11:00")
	proposed := mustInterval(t, "08:30", "12:00")
	existing := []*model.Slot{slot("09:00", "10:00"), slot("10:00", "11:00")}

	plan := Reshape(current, proposed, existing, 25)

	all := append([]*model.Slot{}, plan.Keep...)
	for i := range plan.Create {
		all = append(all, &plan.Create[i])
	}
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			a := mustInterval(t, all[i].StartTime, all[i].EndTime)
			b := mustInterval(t, all[j].StartTime, all[j].EndTime)
			if a.Overlaps(b) {
				t.Errorf("slots overlap: %s-%s and %s-%s",
					all[i].StartTime, all[i].EndTime, all[j].StartTime, all[j].EndTime)
			}
		}
	}
}
