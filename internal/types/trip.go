package types

import (
	"encoding/json"
	"time"
)

// Trip is one planned trip of a user. The ID is the creation timestamp in
// unix milliseconds. Either date may be nil independently; a trip without
// dates is valid and rendered as an "add dates" prompt by the UI.
type Trip struct {
	ID            int64
	Name          string
	DestinationID string
	StartDate     *time.Time
	EndDate       *time.Time
	Image         string
}

// tripJSON is the persisted shape: dates travel as ISO-8601 strings, nil as
// JSON null, matching the legacy stored records.
type tripJSON struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	DestinationID string  `json:"destinationId"`
	StartDate     *string `json:"startDate"`
	EndDate       *string `json:"endDate"`
	Image         string  `json:"image"`
}

func (t Trip) MarshalJSON() ([]byte, error) {
	out := tripJSON{
		ID:            t.ID,
		Name:          t.Name,
		DestinationID: t.DestinationID,
		Image:         t.Image,
	}
	if t.StartDate != nil {
		s := t.StartDate.UTC().Format(time.RFC3339)
		out.StartDate = &s
	}
	if t.EndDate != nil {
		s := t.EndDate.UTC().Format(time.RFC3339)
		out.EndDate = &s
	}
	return json.Marshal(out)
}

func (t *Trip) UnmarshalJSON(data []byte) error {
	var in tripJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	t.ID = in.ID
	t.Name = in.Name
	t.DestinationID = in.DestinationID
	t.Image = in.Image
	t.StartDate = parseStoredDate(in.StartDate)
	t.EndDate = parseStoredDate(in.EndDate)
	return nil
}

// parseStoredDate degrades an unparsable stored date to nil instead of
// failing the whole record.
func parseStoredDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, *s); err == nil {
			return &ts
		}
	}
	return nil
}
