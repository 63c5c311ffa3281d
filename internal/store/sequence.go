// internal/store/sequence.go
package store

import (
	"context"
	"fmt"

	"recruiting-backoffice/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const postingSequenceKey = "jobs:posting-sequence"

// Sequence hands out human-facing posting identifiers from a Redis
// counter. Identifiers are monotonically increasing and never reused;
// gaps are acceptable.
type Sequence struct {
	client *redis.Client
	logger logger.Logger
}

func NewSequence(client *redis.Client, log logger.Logger) *Sequence {
	return &Sequence{
		client: client,
		logger: log.WithFields(map[string]interface{}{"store": "sequence"}),
	}
}

// NextPostingID returns the next posting identifier, formatted "OB-<n>".
func (s *Sequence) NextPostingID(ctx context.Context) (string, error) {
	n, err := s.client.Incr(ctx, postingSequenceKey).Result()
	if err != nil {
		return "", fmt.Errorf("posting sequence incr: %w", err)
	}
	return fmt.Sprintf("OB-%d", n), nil
}
