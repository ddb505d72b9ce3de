package mysql

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"microblog-backend/internal/errors"
	"microblog-backend/internal/model"
	"microblog-backend/internal/util"

	"go.uber.org/zap"
)

type contentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) *contentRepository {
	return &contentRepository{db: db}
}

// CreateMedia 插入媒体记录后写入文件，两者都成功才提交事务
func (r *contentRepository) CreateMedia(ctx context.Context, media *model.Media, persist func(ctx context.Context) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO media (file, owner_id, created_at) VALUES (?, ?, NOW())`
	result, err := tx.ExecContext(ctx, query, media.File, media.OwnerID)
	if err != nil {
		if isDuplicateEntry(err) {
			return errors.Wrap(errors.ErrResourceConflict, "media file name already in use", err)
		}
		util.Logger.Error("插入媒体记录失败", zap.Error(err), zap.Int("owner_id", media.OwnerID))
		return errors.Wrap(errors.ErrDatabase, "failed to create media", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新媒体ID失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to read media id", err)
	}
	media.ID = int(id)

	if err := persist(ctx); err != nil {
		util.Logger.Error("保存媒体文件失败", zap.Error(err), zap.String("file", media.File))
		return errors.Wrap(errors.ErrStorage, "failed to store media file", err)
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to commit media", err)
	}

	util.Logger.Info("媒体创建成功", zap.Int("media_id", media.ID), zap.Int("owner_id", media.OwnerID))
	return nil
}

// CreateTweet 创建推文并绑定附件。附件必须属于作者且尚未被其他推文引用。
func (r *contentRepository) CreateTweet(ctx context.Context, tweet *model.Tweet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	if len(tweet.MediaIDs) > 0 {
		if err := lockAttachableMedia(ctx, tx, tweet.AuthorID, tweet.MediaIDs); err != nil {
			return err
		}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO tweets (content, author_id, created_at) VALUES (?, ?, NOW())`,
		tweet.Content, tweet.AuthorID)
	if err != nil {
		if isMissingParent(err) {
			return errors.Wrap(errors.ErrUserNotFound, "author not found", err)
		}
		util.Logger.Error("创建推文失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to create tweet", err)
	}

	tweetID, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新推文ID失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to read tweet id", err)
	}
	tweet.ID = int(tweetID)

	// 绑定附件，position 保存 tweet_media_ids 中的顺序
	for i, mediaID := range tweet.MediaIDs {
		res, err := tx.ExecContext(ctx,
			`UPDATE media SET tweet_id = ?, position = ? WHERE id = ? AND owner_id = ? AND tweet_id IS NULL`,
			tweetID, i, mediaID, tweet.AuthorID)
		if err != nil {
			util.Logger.Error("绑定推文附件失败", zap.Error(err), zap.Int("media_id", mediaID))
			return errors.Wrap(errors.ErrDatabase, "failed to attach media", err)
		}
		if n, err := res.RowsAffected(); err != nil || n != 1 {
			return errors.New(errors.ErrValidation, fmt.Sprintf("media %d can't be attached", mediaID))
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to commit tweet", err)
	}

	util.Logger.Info("推文创建成功", zap.Int("tweet_id", tweet.ID), zap.Int("attachments", len(tweet.MediaIDs)))
	return nil
}

// lockAttachableMedia 锁定附件行并校验归属，避免与孤儿清理或其他推文并发绑定
func lockAttachableMedia(ctx context.Context, tx *sql.Tx, authorID int, mediaIDs []int) error {
	args := make([]interface{}, len(mediaIDs))
	for i, id := range mediaIDs {
		args[i] = id
	}
	query := `SELECT id, owner_id, tweet_id FROM media WHERE id IN (` + placeholders(len(mediaIDs)) + `) FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to load media", err)
	}
	defer rows.Close()

	found := make(map[int]model.Media, len(mediaIDs))
	for rows.Next() {
		var m model.Media
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.TweetID); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to scan media", err)
		}
		found[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to iterate media", err)
	}

	for _, id := range mediaIDs {
		m, ok := found[id]
		switch {
		case !ok:
			return errors.New(errors.ErrMediaNotFound, fmt.Sprintf("media %d not found", id))
		case m.OwnerID != authorID:
			return errors.New(errors.ErrMediaNotOwned, fmt.Sprintf("media %d doesn't belong to you", id))
		case m.TweetID != nil:
			return errors.New(errors.ErrValidation, fmt.Sprintf("media %d is already attached", id))
		}
	}
	return nil
}

func (r *contentRepository) GetTweetByID(ctx context.Context, id int) (*model.Tweet, error) {
	var tweet model.Tweet
	err := r.db.QueryRowContext(ctx,
		`SELECT id, content, author_id, created_at FROM tweets WHERE id = ?`, id,
	).Scan(&tweet.ID, &tweet.Content, &tweet.AuthorID, &tweet.CreatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrDatabase, "failed to get tweet", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM media WHERE tweet_id = ? ORDER BY position ASC, id ASC`, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to get tweet media", err)
	}
	defer rows.Close()

	tweet.MediaIDs = []int{}
	for rows.Next() {
		var mediaID int
		if err := rows.Scan(&mediaID); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "failed to scan tweet media", err)
		}
		tweet.MediaIDs = append(tweet.MediaIDs, mediaID)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to iterate tweet media", err)
	}
	return &tweet, nil
}

// DeleteTweet 在一个事务中删除推文、点赞和附件记录。
// 返回的文件在事务提交后由调用方从存储中删除。
func (r *contentRepository) DeleteTweet(ctx context.Context, tweetID, authorID int) ([]string, error) {
	util.Logger.Info("开始删除推文", zap.Int("tweet_id", tweetID), zap.Int("author_id", authorID))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	var owner int
	err = tx.QueryRowContext(ctx, `SELECT author_id FROM tweets WHERE id = ? FOR UPDATE`, tweetID).Scan(&owner)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.New(errors.ErrTweetNotFound, "Tweet not found")
		}
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load tweet", err)
	}
	if owner != authorID {
		return nil, errors.New(errors.ErrNotTweetOwner, "Can't delete tweet. It's not yours.")
	}

	rows, err := tx.QueryContext(ctx, `SELECT file FROM media WHERE tweet_id = ? ORDER BY position ASC FOR UPDATE`, tweetID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load tweet media", err)
	}
	var files []string
	for rows.Next() {
		var file string
		if err := rows.Scan(&file); err != nil {
			rows.Close()
			return nil, errors.Wrap(errors.ErrDatabase, "failed to scan media file", err)
		}
		files = append(files, file)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to iterate media files", err)
	}

	for _, stmt := range []string{
		`DELETE FROM likes WHERE tweet_id = ?`,
		`DELETE FROM media WHERE tweet_id = ?`,
		`DELETE FROM tweets WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, tweetID); err != nil {
			util.Logger.Error("删除推文失败", zap.Error(err), zap.Int("tweet_id", tweetID))
			return nil, errors.Wrap(errors.ErrDatabase, "failed to delete tweet", err)
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to commit tweet deletion", err)
	}

	util.Logger.Info("推文删除成功", zap.Int("tweet_id", tweetID), zap.Int("files", len(files)))
	return files, nil
}

// feedQuery 每行对应 推文 × 附件 × 点赞 的一个组合，由调用方折叠
const feedQuery = `
        SELECT t.id, t.content, t.author_id, a.name,
               (f.follower_id IS NOT NULL) AS followed,
               COALESCE(fc.cnt, 0) AS follower_count,
               m.id, m.file, l.user_id, lu.name
        FROM tweets t
        JOIN users a ON a.id = t.author_id
        LEFT JOIN follows f ON f.followee_id = t.author_id AND f.follower_id = ? AND f.follower_id <> f.followee_id
        LEFT JOIN (
            SELECT followee_id, COUNT(DISTINCT follower_id) AS cnt
            FROM follows
            WHERE follower_id <> followee_id
            GROUP BY followee_id
        ) fc ON fc.followee_id = t.author_id
        LEFT JOIN media m ON m.tweet_id = t.id
        LEFT JOIN likes l ON l.tweet_id = t.id
        LEFT JOIN users lu ON lu.id = l.user_id`

const feedOrder = `
        ORDER BY t.id DESC, m.position ASC, m.id ASC, l.created_at ASC, l.user_id ASC`

// ListFeedRows 返回所有推文的联表行，排名由信息流服务完成
func (r *contentRepository) ListFeedRows(ctx context.Context, requesterID int) ([]model.FeedRow, error) {
	return r.queryFeedRows(ctx, feedQuery+feedOrder, requesterID)
}

// ListTweetRows 返回单条推文的联表行
func (r *contentRepository) ListTweetRows(ctx context.Context, requesterID, tweetID int) ([]model.FeedRow, error) {
	return r.queryFeedRows(ctx, feedQuery+`
        WHERE t.id = ?`+feedOrder, requesterID, tweetID)
}

func (r *contentRepository) queryFeedRows(ctx context.Context, query string, args ...interface{}) ([]model.FeedRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		util.Logger.Error("查询信息流失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to query feed", err)
	}
	defer rows.Close()

	var result []model.FeedRow
	for rows.Next() {
		var row model.FeedRow
		err := rows.Scan(
			&row.TweetID, &row.Content, &row.AuthorID, &row.AuthorName,
			&row.AuthorFollowed, &row.AuthorFollower,
			&row.MediaID, &row.MediaFile, &row.LikerID, &row.LikerName,
		)
		if err != nil {
			util.Logger.Error("扫描信息流数据失败", zap.Error(err))
			return nil, errors.Wrap(errors.ErrDatabase, "failed to scan feed row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to iterate feed rows", err)
	}
	return result, nil
}

// ListOrphanMedia 列出创建时间早于 createdBefore 且未绑定推文的媒体
func (r *contentRepository) ListOrphanMedia(ctx context.Context, createdBefore time.Time, limit int) ([]model.Media, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, file, owner_id, created_at
        FROM media
        WHERE tweet_id IS NULL AND created_at < ?
        ORDER BY id ASC
        LIMIT ?`, createdBefore, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list orphan media", err)
	}
	defer rows.Close()

	var media []model.Media
	for rows.Next() {
		var m model.Media
		if err := rows.Scan(&m.ID, &m.File, &m.OwnerID, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "failed to scan orphan media", err)
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to iterate orphan media", err)
	}
	return media, nil
}

// DeleteOrphanMedia 仅当媒体仍未绑定推文时删除，返回是否删除
func (r *contentRepository) DeleteOrphanMedia(ctx context.Context, mediaID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE id = ? AND tweet_id IS NULL`, mediaID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "failed to delete orphan media", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "failed to read affected rows", err)
	}
	return n == 1, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
