package redislock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"workspace-access/internal/domain/access"
	"workspace-access/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// unlockScript borra la clave solo si todavía tiene nuestro token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

const (
	defaultTTL   = 10 * time.Second
	defaultRetry = 25 * time.Millisecond
)

// Locker es el access.Locker distribuido: SET NX PX con token por holder.
// El TTL libera la clave si el proceso muere con el lock tomado.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
	prefix string
	log    logger.Logger
}

var _ access.Locker = (*Locker)(nil)

func New(client *redis.Client, ttl time.Duration, log logger.Logger) *Locker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Locker{
		client: client,
		ttl:    ttl,
		retry:  defaultRetry,
		prefix: "access:lock:",
		log:    log,
	}
}

// NewClient arma el cliente y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// ctx propio: el del request puede estar cancelado al liberar
			uctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := unlockScript.Run(uctx, l.client, []string{redisKey}, token).Err(); err != nil {
				l.log.Warn("redis unlock failed", map[string]any{"key": key, "error": err.Error()})
			}
		})
	}, nil
}
