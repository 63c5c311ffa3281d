// internal/store/sequence_test.go
package store

import (
	"context"
	"testing"

	"recruiting-backoffice/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_NextPostingID_Monotonic(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	seq := NewSequence(client, logger.NewNoOpLogger())

	first, err := seq.NextPostingID(context.Background())
	require.NoError(t, err)
	second, err := seq.NextPostingID(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "OB-1", first)
	assert.Equal(t, "OB-2", second)
}

func TestSequence_NextPostingID_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	seq := NewSequence(client, logger.NewNoOpLogger())

	_, err := seq.NextPostingID(context.Background())
	assert.Error(t, err)
}
