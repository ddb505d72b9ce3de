package model

import "time"

type Like struct {
	TweetID   int       `json:"tweet_id"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Follow struct {
	FollowerID int       `json:"follower_id"`
	FolloweeID int       `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
