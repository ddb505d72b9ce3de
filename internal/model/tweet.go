package model

import "time"

// Media 是用户上传的文件，最多被一条推文引用
type Media struct {
	ID        int       `json:"id"`
	File      string    `json:"file"`
	OwnerID   int       `json:"owner_id"`
	TweetID   *int      `json:"tweet_id,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Tweet 推文在存储层的表示，附件按 tweet_media_ids 的顺序排列
type Tweet struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	AuthorID  int       `json:"author_id"`
	MediaIDs  []int     `json:"media_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// TweetLike 点赞者信息
type TweetLike struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
}

// FeedTweet 信息流中的一条推文
type FeedTweet struct {
	ID          int         `json:"id"`
	Content     string      `json:"content"`
	Attachments []string    `json:"attachments"`
	Author      UserSummary `json:"author"`
	Likes       []TweetLike `json:"likes"`
}

// FeedRow 是信息流联表查询返回的一行。
// 附件与点赞通过 LEFT JOIN 获取，同一推文会出现多行。
type FeedRow struct {
	TweetID        int
	Content        string
	AuthorID       int
	AuthorName     string
	AuthorFollowed bool
	AuthorFollower int
	MediaID        *int
	MediaFile      *string
	LikerID        *int
	LikerName      *string
}
