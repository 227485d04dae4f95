package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/5w1tchy/strength-api/internal/session"
	"github.com/redis/go-redis/v9"
)

// Redis keeps each session under three keys sharing one TTL:
//
//	hist:{sid}      list of JSON entries, insertion order
//	hist:{sid}:fp   set of fingerprints (dedup)
//	ach:{sid}       set of unlocked achievements
type Redis struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedis(rdb redis.Cmdable, ttl time.Duration) session.Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Redis{rdb: rdb, ttl: ttl}
}

func listKey(sid string) string { return "hist:" + sid }
func fpKey(sid string) string   { return "hist:" + sid + ":fp" }
func achKey(sid string) string  { return "ach:" + sid }

// appendLua: KEYS = list, fingerprint set. ARGV = fingerprint, entry JSON,
// limit (0 = unbounded), ttl in ms. Returns -1 full, 0 duplicate, 1 stored.
const appendLua = `
local limit = tonumber(ARGV[3])
if limit > 0 and redis.call('LLEN', KEYS[1]) >= limit then
  return -1
end
if redis.call('SADD', KEYS[2], ARGV[1]) == 0 then
  return 0
end
redis.call('RPUSH', KEYS[1], ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
redis.call('PEXPIRE', KEYS[2], ARGV[4])
return 1
`

var appendScript = redis.NewScript(appendLua)

func (r *Redis) Append(ctx context.Context, sid string, e session.Entry, limit int) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if limit < 0 {
		limit = 0
	}
	res, err := appendScript.Run(ctx, r.rdb, []string{listKey(sid), fpKey(sid)},
		e.Fingerprint, b, strconv.Itoa(limit), strconv.FormatInt(r.ttl.Milliseconds(), 10),
	).Int()
	if err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	switch res {
	case -1:
		return session.ErrHistoryFull
	case 0:
		return session.ErrDuplicate
	}
	return nil
}

func (r *Redis) List(ctx context.Context, sid string) ([]session.Entry, error) {
	raw, err := r.rdb.LRange(ctx, listKey(sid), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("history: lrange: %w", err)
	}
	out := make([]session.Entry, 0, len(raw))
	for _, s := range raw {
		var e session.Entry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, fmt.Errorf("history: decode entry: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *Redis) Count(ctx context.Context, sid string) (int, error) {
	n, err := r.rdb.LLen(ctx, listKey(sid)).Result()
	return int(n), err
}

func (r *Redis) Unlock(ctx context.Context, sid string, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	members := make([]any, len(names))
	for i, n := range names {
		members[i] = n
	}
	pipe := r.rdb.TxPipeline()
	pipe.SAdd(ctx, achKey(sid), members...)
	pipe.Expire(ctx, achKey(sid), r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) Achievements(ctx context.Context, sid string) ([]string, error) {
	return r.rdb.SMembers(ctx, achKey(sid)).Result()
}
