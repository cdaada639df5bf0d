package model

import "time"

type Profile struct {
	OwnerAddress    string     `db:"owner_address"`
	ProfileID       *string    `db:"profile_id"`
	Username        *string    `db:"username"`
	DisplayName     *string    `db:"display_name"`
	Bio             *string    `db:"bio"`
	ProfilePhoto    *string    `db:"profile_photo"`
	CoverPhoto      *string    `db:"cover_photo"`
	Website         *string    `db:"website"`
	FollowersCount  int64      `db:"followers_count"`
	FollowingCount  int64      `db:"following_count"`
	ContentCount    int64      `db:"content_count"`
	PlatformsJoined int64      `db:"platforms_joined"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	LastActivityAt  *time.Time `db:"last_activity_at"`
}

// ProfileCounters holds the derived counters of a profile that are
// recomputable from relationship tables.
type ProfileCounters struct {
	OwnerAddress    string `db:"owner_address"`
	FollowersCount  int64  `db:"followers_count"`
	FollowingCount  int64  `db:"following_count"`
	PlatformsJoined int64  `db:"platforms_joined"`
	ContentCount    int64  `db:"content_count"`
}

func (c ProfileCounters) Equal(o ProfileCounters) bool {
	return c.FollowersCount == o.FollowersCount &&
		c.FollowingCount == o.FollowingCount &&
		c.PlatformsJoined == o.PlatformsJoined &&
		c.ContentCount == o.ContentCount
}

type UsernameChange struct {
	ProfileID   string    `db:"profile_id"`
	OldUsername *string   `db:"old_username"`
	NewUsername string    `db:"new_username"`
	ChangedAt   time.Time `db:"changed_at"`
	EventID     string    `db:"event_id"`
}
