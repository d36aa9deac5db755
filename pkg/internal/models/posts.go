package models

import (
	"time"

	"gorm.io/datatypes"
)

// LangUndetermined is the language bucket for posts whose language the
// upstream platform could not identify.
const LangUndetermined = "und"

// Post is a normalized social-media message. The primary key is the numeric
// id assigned by the upstream platform, which makes creation idempotent
// against repeated deliveries of the same search result.
//
// A post may reference another post it quotes or retweets. Deleting the
// referenced post cascades to the referencing one. RetweetCount is always
// zero on a post that is itself a retweet so that borrowed engagement never
// leaks into the aggregates.
type Post struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	QuotedID    *int64 `json:"quoted_id"`
	Quoted      *Post  `json:"quoted,omitempty" gorm:"foreignKey:QuotedID"`
	RetweetedID *int64 `json:"retweeted_id"`
	Retweeted   *Post  `json:"retweeted,omitempty" gorm:"foreignKey:RetweetedID"`

	AuthorID int64  `json:"author_id" gorm:"not null"`
	Author   Author `json:"author"`

	Hashtags []Hashtag `json:"hashtags" gorm:"many2many:post_hashtags;joinForeignKey:PostID;joinReferences:HashtagName"`

	CreatedAt    time.Time `json:"created_at" gorm:"index"`
	Text         string    `json:"text" gorm:"not null"`
	Lang         string    `json:"lang" gorm:"size:3;not null;default:und"`
	RetweetCount int       `json:"retweet_count"`
	Source       *string   `json:"source" gorm:"size:500"`
	URL          *string   `json:"url" gorm:"size:100"`
	FilterLevel  *string   `json:"filter_level" gorm:"size:50"`

	// Every hashtag text seen in the post body, tracked or not. Kept so a
	// post can be inspected for topics the monitor does not follow yet.
	Mentions datatypes.JSONSlice[string] `json:"mentions"`
}
