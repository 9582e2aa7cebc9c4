package locking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker serializes schedule runs per (location, date) with a Redis SET NX
// lock. Concurrent ScheduleDay calls for the same key would race on the
// read-then-write capacity checks, so callers take the lock first.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl}
}

// ScheduleDayKey builds the lock key for one location and date.
func ScheduleDayKey(locationID string, date time.Time) string {
	return fmt.Sprintf("roster:schedule:%s:%s", locationID, date.Format("2006-01-02"))
}

// Acquire takes the lock. It returns false when another holder has it, and a
// release func otherwise. Release only deletes the key when we still own it.
func (l *Locker) Acquire(ctx context.Context, key string) (release func(), acquired bool, err error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %q: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func() {
		const script = `
			if redis.call("GET", KEYS[1]) == ARGV[1] then
				return redis.call("DEL", KEYS[1])
			end
			return 0
		`
		_ = l.client.Eval(context.Background(), script, []string{key}, token).Err()
	}
	return release, true, nil
}
