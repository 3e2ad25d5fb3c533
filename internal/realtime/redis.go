package realtime

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/josepguedes/Projeto-2/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChannelPrefix namespaces the per-user pub/sub channels.
const ChannelPrefix = "notifications:"

func Channel(userID uint) string {
	return ChannelPrefix + strconv.FormatUint(uint64(userID), 10)
}

// userFromChannel extracts the user id from a channel name.
func userFromChannel(channel string) (uint, bool) {
	if !strings.HasPrefix(channel, ChannelPrefix) {
		return 0, false
	}
	id, err := strconv.ParseUint(channel[len(ChannelPrefix):], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// Broadcaster publishes payloads on the user's channel so that whichever API
// instance holds the user's websocket can deliver them.
type Broadcaster struct {
	client *redis.Client
}

func NewBroadcaster(client *redis.Client) *Broadcaster {
	return &Broadcaster{client: client}
}

func (b *Broadcaster) Push(ctx context.Context, userID uint, payload []byte) error {
	if err := b.client.Publish(ctx, Channel(userID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", Channel(userID), err)
	}
	return nil
}

// Pusher is anything that can deliver a payload to a user.
type Pusher interface {
	Push(ctx context.Context, userID uint, payload []byte) error
}

// Relay forwards every per-user channel message into a local pusher,
// normally the Hub.
type Relay struct {
	client *redis.Client
	target Pusher
	log    *zap.SugaredLogger
}

func NewRelay(client *redis.Client, target Pusher) *Relay {
	return &Relay{client: client, target: target, log: logger.Named("realtime")}
}

// Run subscribes to all user channels and blocks until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	pubsub := r.client.PSubscribe(ctx, ChannelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	r.log.Infow("Relaying realtime notifications from Redis", "pattern", ChannelPrefix+"*")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			userID, ok := userFromChannel(msg.Channel)
			if !ok {
				r.log.Warnw("Ignoring message on unexpected channel", "channel", msg.Channel)
				continue
			}
			if err := r.target.Push(ctx, userID, []byte(msg.Payload)); err != nil {
				r.log.Warnw("Failed to relay notification", "user_id", userID, "error", err)
			}
		}
	}
}
