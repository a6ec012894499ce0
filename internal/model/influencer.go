// internal/model/influencer.go
package model

type Influencer struct {
	Name            string        `db:"influencer_name" json:"name"`
	InstagramHandle string        `db:"instagram_handle" json:"instagramHandle"`
	FollowerCount   FollowerCount `db:"follower_count" json:"followerCount"`
	City            string        `db:"city" json:"city"`
	Email           string        `db:"email" json:"email"`
	Phone           string        `db:"phone" json:"phone"`
}
