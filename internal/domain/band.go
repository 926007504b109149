package domain

import "time"

// 乐队成员角色
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Band 乐队实体
type Band struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate 验证乐队数据
func (b *Band) Validate() error {
	if b.Name == "" {
		return ErrInvalidBandName
	}
	if len(b.Name) > 100 {
		return ErrBandNameTooLong
	}
	return nil
}

// BandMember 乐队成员关系
type BandMember struct {
	BandID   string    `json:"band_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Validate 验证成员数据
func (m *BandMember) Validate() error {
	if m.BandID == "" {
		return ErrInvalidBandID
	}
	if m.UserID == "" {
		return ErrInvalidUserID
	}
	switch m.Role {
	case RoleOwner, RoleAdmin, RoleMember:
		return nil
	default:
		return ErrInvalidRole
	}
}
