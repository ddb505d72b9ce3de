package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"microblog-backend/internal/util"

	"go.uber.org/zap"
)

// schema 按依赖顺序建表，可重复执行
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id INT AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(255) NOT NULL,
        api_key VARCHAR(255) NOT NULL,
        UNIQUE KEY uq_users_api_key (api_key)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tweets (
        id INT AUTO_INCREMENT PRIMARY KEY,
        content TEXT NOT NULL,
        author_id INT NOT NULL,
        created_at DATETIME NOT NULL,
        KEY idx_tweets_author (author_id),
        CONSTRAINT fk_tweets_author FOREIGN KEY (author_id) REFERENCES users (id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS media (
        id INT AUTO_INCREMENT PRIMARY KEY,
        file VARCHAR(255) NOT NULL,
        owner_id INT NOT NULL,
        tweet_id INT NULL,
        position INT NOT NULL DEFAULT 0,
        created_at DATETIME NOT NULL,
        UNIQUE KEY uq_media_file (file),
        KEY idx_media_tweet (tweet_id, position),
        KEY idx_media_orphan (tweet_id, created_at),
        CONSTRAINT fk_media_owner FOREIGN KEY (owner_id) REFERENCES users (id) ON DELETE CASCADE,
        CONSTRAINT fk_media_tweet FOREIGN KEY (tweet_id) REFERENCES tweets (id) ON DELETE SET NULL
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS follows (
        follower_id INT NOT NULL,
        followee_id INT NOT NULL,
        created_at DATETIME NOT NULL,
        PRIMARY KEY (follower_id, followee_id),
        KEY idx_follows_followee (followee_id),
        CONSTRAINT chk_follows_not_self CHECK (follower_id <> followee_id),
        CONSTRAINT fk_follows_follower FOREIGN KEY (follower_id) REFERENCES users (id) ON DELETE CASCADE,
        CONSTRAINT fk_follows_followee FOREIGN KEY (followee_id) REFERENCES users (id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS likes (
        tweet_id INT NOT NULL,
        user_id INT NOT NULL,
        created_at DATETIME NOT NULL,
        PRIMARY KEY (tweet_id, user_id),
        KEY idx_likes_user (user_id),
        CONSTRAINT fk_likes_tweet FOREIGN KEY (tweet_id) REFERENCES tweets (id) ON DELETE CASCADE,
        CONSTRAINT fk_likes_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Apply 创建缺失的数据表
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	util.Logger.Info("数据库表结构已就绪", zap.Int("tables", len(schema)))
	return nil
}
