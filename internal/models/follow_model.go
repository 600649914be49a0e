package models

import "time"

type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"index;uniqueIndex:idx_follower_followee;not null" json:"follower_id"`
	FolloweeID uint      `gorm:"index;uniqueIndex:idx_follower_followee;not null" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
