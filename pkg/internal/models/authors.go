package models

import "time"

// Author is a normalized record of a user who published at least one post.
// The primary key is the numeric id assigned by the upstream platform.
// Authors are upserted during ingestion and garbage collected once their
// last post is gone.
type Author struct {
	ID             int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name           string    `json:"name" gorm:"size:100;not null"`
	ScreenName     string    `json:"screen_name" gorm:"size:100;not null"`
	CreatedAt      time.Time `json:"created_at"`
	FriendsCount   int       `json:"friends_count"`
	FollowersCount int       `json:"followers_count"`
	ProfileImage   *string   `json:"profile_image"`

	Posts []Post `json:"posts,omitempty"`
}
