package dto

import (
	"encoding/json"
	"strings"
	"time"

	"learntrack/internal/utils"
)

// Date parses a timestamp from JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only is stored as start of that day in UTC.
type Date struct{ t *time.Time }

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	t, err := utils.ParseDate(*raw)
	if err != nil {
		return err
	}
	d.t = &t
	return nil
}

// Ptr returns *time.Time for use in service/domain.
func (d Date) Ptr() *time.Time { return d.t }
