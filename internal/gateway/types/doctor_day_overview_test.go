package types

import (
	"strings"
	"testing"
)

func TestFromMapDoctorDayOverview(t *testing.T) {
	input, err := FromMapDoctorDayOverview(map[string]any{
		"doctor_id": "64b000000000000000000001",
		"date":      "2025-08-04",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.DoctorID != "64b000000000000000000001" || input.Date != "2025-08-04" {
		t.Errorf("unexpected input: %+v", input)
	}
}

func TestFromMapDoctorDayOverviewValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]any
		wantErr string
	}{
		{
			name:    "missing doctor_id",
			input:   map[string]any{"date": "2025-08-04"},
			wantErr: "doctor_id is required",
		},
		{
			name:    "missing date",
			input:   map[string]any{"doctor_id": "64b000000000000000000001"},
			wantErr: "date is required",
		},
		{
			name:    "malformed date",
			input:   map[string]any{"doctor_id": "64b000000000000000000001", "date": "04-08-2025"},
			wantErr: "YYYY-MM-DD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMapDoctorDayOverview(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}
