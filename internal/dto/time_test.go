package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    *time.Time
		wantErr bool
	}{
		{`"2026-02-19"`, ptrTime(time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)), false},
		{`"2026-02-19T10:30:00Z"`, ptrTime(time.Date(2026, 2, 19, 10, 30, 0, 0, time.UTC)), false},
		{`"2026-02-19T10:30:00+03:00"`, ptrTime(time.Date(2026, 2, 19, 7, 30, 0, 0, time.UTC)), false},
		{`"2026-02-19T10:30:00"`, ptrTime(time.Date(2026, 2, 19, 10, 30, 0, 0, time.UTC)), false},
		{`null`, nil, false},
		{`""`, nil, false},
		{`"19.02.2026"`, nil, true},
		{`42`, nil, true},
	}
	for _, tt := range tests {
		var d Date
		err := json.Unmarshal([]byte(tt.in), &d)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: err = %v", tt.in, err)
		}
		if tt.wantErr {
			continue
		}
		got := d.Ptr()
		if (got == nil) != (tt.want == nil) || (got != nil && !got.Equal(*tt.want)) {
			t.Fatalf("%s: got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
