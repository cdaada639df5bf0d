package model

import "time"

type Platform struct {
	PlatformID        string     `db:"platform_id"`
	Name              string     `db:"name"`
	Tagline           *string    `db:"tagline"`
	Description       *string    `db:"description"`
	Logo              *string    `db:"logo"`
	DeveloperAddress  string     `db:"developer_address"`
	Status            int16      `db:"status"`
	IsApproved        bool       `db:"is_approved"`
	ApprovedBy        *string    `db:"approved_by"`
	ApprovalChangedAt *time.Time `db:"approval_changed_at"`
	TotalUsersCount   int64      `db:"total_users_count"`
	ContentCount      int64      `db:"content_count"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	LastActivityAt    *time.Time `db:"last_activity_at"`
}

type PlatformCounters struct {
	PlatformID      string `db:"platform_id"`
	TotalUsersCount int64  `db:"total_users_count"`
	ContentCount    int64  `db:"content_count"`
}

func (c PlatformCounters) Equal(o PlatformCounters) bool {
	return c.TotalUsersCount == o.TotalUsersCount && c.ContentCount == o.ContentCount
}
