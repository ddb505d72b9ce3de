package service

import (
	"context"
	"sort"

	"microblog-backend/internal/errors"
	"microblog-backend/internal/model"
	"microblog-backend/internal/repository/interfaces"
)

// FeedService 生成信息流
type FeedService struct {
	repo interfaces.ContentRepository
	// resolve 把存储文件名转换为可访问的地址
	resolve func(file string) string
}

func NewFeedService(repo interfaces.ContentRepository, resolve func(file string) string) *FeedService {
	return &FeedService{repo: repo, resolve: resolve}
}

// GetFeed 返回 requesterID 的信息流。
// 关注作者的推文在前，按作者粉丝数降序；其余推文在后；同组内按推文ID降序。
func (s *FeedService) GetFeed(ctx context.Context, requesterID int) ([]model.FeedTweet, error) {
	rows, err := s.repo.ListFeedRows(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	entries := foldFeedRows(rows, s.resolve)
	rankFeed(entries)

	feed := make([]model.FeedTweet, len(entries))
	for i, e := range entries {
		feed[i] = e.tweet
	}
	return feed, nil
}

// GetTweet 返回单条推文，结构与信息流中的条目相同
func (s *FeedService) GetTweet(ctx context.Context, requesterID, tweetID int) (*model.FeedTweet, error) {
	rows, err := s.repo.ListTweetRows(ctx, requesterID, tweetID)
	if err != nil {
		return nil, err
	}

	entries := foldFeedRows(rows, s.resolve)
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrTweetNotFound, "Tweet not found")
	}
	return &entries[0].tweet, nil
}

type feedEntry struct {
	tweet         model.FeedTweet
	followed      bool
	followerCount int
}

// foldFeedRows 把联表产生的多行合并为每条推文一项。
// 附件和点赞按首次出现的顺序去重，文件名为空的附件被忽略。
func foldFeedRows(rows []model.FeedRow, resolve func(string) string) []feedEntry {
	var entries []feedEntry
	index := make(map[int]int)
	seenMedia := make(map[int]map[int]struct{})
	seenLikes := make(map[int]map[int]struct{})

	for _, row := range rows {
		i, ok := index[row.TweetID]
		if !ok {
			i = len(entries)
			index[row.TweetID] = i
			seenMedia[row.TweetID] = make(map[int]struct{})
			seenLikes[row.TweetID] = make(map[int]struct{})
			entries = append(entries, feedEntry{
				tweet: model.FeedTweet{
					ID:          row.TweetID,
					Content:     row.Content,
					Attachments: []string{},
					Author:      model.UserSummary{ID: row.AuthorID, Name: row.AuthorName},
					Likes:       []model.TweetLike{},
				},
				followed:      row.AuthorFollowed,
				followerCount: row.AuthorFollower,
			})
		}
		entry := &entries[i]

		if row.MediaID != nil && row.MediaFile != nil && *row.MediaFile != "" {
			if _, dup := seenMedia[row.TweetID][*row.MediaID]; !dup {
				seenMedia[row.TweetID][*row.MediaID] = struct{}{}
				file := *row.MediaFile
				if resolve != nil {
					file = resolve(file)
				}
				entry.tweet.Attachments = append(entry.tweet.Attachments, file)
			}
		}

		if row.LikerID != nil && row.LikerName != nil {
			if _, dup := seenLikes[row.TweetID][*row.LikerID]; !dup {
				seenLikes[row.TweetID][*row.LikerID] = struct{}{}
				entry.tweet.Likes = append(entry.tweet.Likes, model.TweetLike{UserID: *row.LikerID, Name: *row.LikerName})
			}
		}
	}
	return entries
}

// rankFeed 排序键：是否关注作者、作者粉丝数（仅关注组内比较）、推文ID，均为降序
func rankFeed(entries []feedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.followed != b.followed {
			return a.followed
		}
		if a.followed && a.followerCount != b.followerCount {
			return a.followerCount > b.followerCount
		}
		return a.tweet.ID > b.tweet.ID
	})
}

type FeedServiceInterface interface {
	GetFeed(ctx context.Context, requesterID int) ([]model.FeedTweet, error)
	GetTweet(ctx context.Context, requesterID, tweetID int) (*model.FeedTweet, error)
}

var _ FeedServiceInterface = (*FeedService)(nil)
