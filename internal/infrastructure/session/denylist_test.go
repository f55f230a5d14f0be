package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRedis answers SET and EXISTS from a map through a process hook, so
// commands never reach the network.
type memoryRedis struct {
	mu      sync.Mutex
	now     func() time.Time
	expires map[string]time.Time
	fail    error
}

func (m *memoryRedis) DialHook(next redis.DialHook) redis.DialHook { return next }

func (m *memoryRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (m *memoryRedis) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.fail != nil {
			cmd.SetErr(m.fail)
			return m.fail
		}
		args := cmd.Args()
		switch strings.ToLower(cmd.Name()) {
		case "set":
			ttl, err := setTTL(args)
			if err != nil {
				cmd.SetErr(err)
				return err
			}
			m.expires[fmt.Sprint(args[1])] = m.now().Add(ttl)
			cmd.(*redis.StatusCmd).SetVal("OK")
		case "exists":
			var n int64
			for _, k := range args[1:] {
				if exp, ok := m.expires[fmt.Sprint(k)]; ok && m.now().Before(exp) {
					n++
				}
			}
			cmd.(*redis.IntCmd).SetVal(n)
		default:
			err := fmt.Errorf("unexpected command %s", cmd.Name())
			cmd.SetErr(err)
			return err
		}
		return nil
	}
}

// setTTL reads the EX/PX option of SET key value [EX s|PX ms].
func setTTL(args []any) (time.Duration, error) {
	if len(args) < 5 {
		return 0, errors.New("set without expiry")
	}
	var n int64
	if _, err := fmt.Sscan(fmt.Sprint(args[4]), &n); err != nil {
		return 0, err
	}
	switch strings.ToLower(fmt.Sprint(args[3])) {
	case "ex":
		return time.Duration(n) * time.Second, nil
	case "px":
		return time.Duration(n) * time.Millisecond, nil
	}
	return 0, fmt.Errorf("unsupported set option %v", args[3])
}

func newTestDenylist(t *testing.T, now *time.Time) (*RedisDenylist, *memoryRedis) {
	t.Helper()
	fake := &memoryRedis{now: func() time.Time { return *now }, expires: map[string]time.Time{}}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	rdb.AddHook(fake)
	t.Cleanup(func() { _ = rdb.Close() })

	d := NewRedisDenylist(rdb)
	d.now = func() time.Time { return *now }
	return d, fake
}

func TestRevokeThenIsRevoked(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d, fake := newTestDenylist(t, &now)
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "jti-1", now.Add(2*time.Hour)))
	assert.Equal(t, now.Add(2*time.Hour), fake.expires["session:revoked:jti-1"], "kept until the token expires")

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entry lapses with the token")
}

func TestIsRevokedReportsRedisErrors(t *testing.T) {
	now := time.Now()
	d, fake := newTestDenylist(t, &now)
	fake.fail = errors.New("connection refused")

	_, err := d.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
	assert.Error(t, d.Revoke(context.Background(), "jti-1", now.Add(time.Hour)))
}

func TestRevokeSkipsExpiredTokens(t *testing.T) {
	now := time.Now()
	d, fake := newTestDenylist(t, &now)

	require.NoError(t, d.Revoke(context.Background(), "jti", now.Add(-time.Second)))
	assert.Empty(t, fake.expires)
}

func TestRevokedKey(t *testing.T) {
	assert.Equal(t, "session:revoked:abc", revokedKey("abc"))
}
