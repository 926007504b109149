package domain

import "time"

// Gig 演出实体
type Gig struct {
	ID        string     `json:"id"`
	BandID    string     `json:"band_id"`
	Name      string     `json:"name"`
	Venue     string     `json:"venue,omitempty"`
	StartsAt  time.Time  `json:"starts_at"`
	SetlistID *string    `json:"setlist_id,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Validate 验证演出数据
func (g *Gig) Validate() error {
	if g.BandID == "" {
		return ErrInvalidBandID
	}
	if g.Name == "" {
		return ErrInvalidGigName
	}
	if g.StartsAt.IsZero() {
		return ErrInvalidStartTime
	}
	return nil
}
