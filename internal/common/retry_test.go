package common

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithRetryEventuallySucceeds(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryGivesUp(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return errors.New("down")
	}, 3, time.Millisecond)

	assert.EqualError(t, err, "down")
	assert.Equal(t, 3, calls)
}

func TestWithRetryIfStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := WithRetryIf(context.Background(), func() error {
		calls++
		return errors.New("syntax error")
	}, IsRetryable, 5, time.Millisecond)

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := WithRetry(ctx, func() error {
		calls++
		return sql.ErrConnDone
	}, 5, time.Hour)

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Equal(t, 1, calls)
	assert.True(t, IsRetryable(sql.ErrConnDone))
}
