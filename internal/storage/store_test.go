package storage

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestStorageErrMarks(t *testing.T) {
	t.Parallel()
	cause := context.DeadlineExceeded
	err := storageErr("get", "master/tf/batting_stats.csv", cause)

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "get master/tf/batting_stats.csv: context deadline exceeded", err.Error())

	wrapped := errors.Wrap(err, "load master")
	assert.True(t, errors.Is(wrapped, ErrStorage), "mark survives further wrapping")
}
