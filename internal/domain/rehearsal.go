package domain

import "time"

// Rehearsal 排练实体
type Rehearsal struct {
	ID        string    `json:"id"`
	BandID    string    `json:"band_id"`
	Location  string    `json:"location,omitempty"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	SetlistID *string   `json:"setlist_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate 验证排练数据
func (r *Rehearsal) Validate() error {
	if r.BandID == "" {
		return ErrInvalidBandID
	}
	if r.StartsAt.IsZero() {
		return ErrInvalidStartTime
	}
	if !r.EndsAt.IsZero() && r.EndsAt.Before(r.StartsAt) {
		return ErrInvalidTimeRange
	}
	return nil
}
