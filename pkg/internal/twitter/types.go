package twitter

import "time"

// createdAtLayout is the timestamp format used by the search API,
// e.g. "Sun Dec 22 16:03:45 +0000 2019".
const createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

func ParseCreatedAt(value string) (time.Time, error) {
	return time.Parse(createdAtLayout, value)
}

type RawHashtag struct {
	Text string `json:"text"`
}

type RawEntities struct {
	Hashtags []RawHashtag `json:"hashtags"`
}

type RawUser struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	ScreenName      string  `json:"screen_name"`
	CreatedAt       string  `json:"created_at"`
	FriendsCount    int     `json:"friends_count"`
	FollowersCount  int     `json:"followers_count"`
	ProfileImageURL *string `json:"profile_image_url_https"`
}

type RawExtended struct {
	FullText string      `json:"full_text"`
	Entities RawEntities `json:"entities"`
}

// RawPost is a single search result as delivered by the platform. Quoted and
// retweeted posts arrive embedded and are unpacked recursively by the
// ingestion resolver.
type RawPost struct {
	ID           int64        `json:"id"`
	Text         string       `json:"text"`
	CreatedAt    string       `json:"created_at"`
	Lang         *string      `json:"lang"`
	RetweetCount *int         `json:"retweet_count"`
	Source       *string      `json:"source"`
	FilterLevel  *string      `json:"filter_level"`
	Entities     RawEntities  `json:"entities"`
	User         *RawUser     `json:"user"`
	Quoted       *RawPost     `json:"quoted_status"`
	Retweeted    *RawPost     `json:"retweeted_status"`
	Extended     *RawExtended `json:"extended_tweet"`
}

type searchResponse struct {
	Statuses []RawPost `json:"statuses"`
}
