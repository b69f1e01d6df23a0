package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamPrefix is prepended to the league key to name each stream.
const StreamPrefix = "boxscore.normalized."

// Publisher receives normalized boxscores as they change.
type Publisher interface {
	PublishBoxscore(ctx context.Context, league, eventID string, categories map[string]any) error
}

// RedisStreamPublisher publishes events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, now: time.Now}
}

// StreamName returns the stream a league's boxscores go to.
func StreamName(league string) string {
	return StreamPrefix + league
}

// PublishBoxscore appends one normalized boxscore to the league stream.
func (p *RedisStreamPublisher) PublishBoxscore(ctx context.Context, league, eventID string, categories map[string]any) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName(league),
		Values: Fields(eventID, data, p.now()),
	}).Err()
}

// Fields builds the stream entry values.
func Fields(eventID string, data []byte, at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"event_id":  eventID,
		"data":      string(data),
		"timestamp": at.Unix(),
	}
}

// Nop discards everything; used when Redis is not configured.
type Nop struct{}

func (Nop) PublishBoxscore(context.Context, string, string, map[string]any) error { return nil }
