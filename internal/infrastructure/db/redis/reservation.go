package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const reservationTTL = 24 * time.Hour

// NameReservations claims generated upload names so two writers can never be
// handed the same object key.
// Key format: upload:name:<name>
type NameReservations struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewNameReservations wraps client. Reservations expire after a day; by then
// the object exists in storage and the millisecond prefix has moved on.
func NewNameReservations(client redis.Cmdable) *NameReservations {
	return &NameReservations{client: client, ttl: reservationTTL}
}

// Reserve reports true when name was free and is now held.
func (n *NameReservations) Reserve(ctx context.Context, name string) (bool, error) {
	ok, err := n.client.SetNX(ctx, n.key(name), "1", n.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve name: %w", err)
	}
	return ok, nil
}

func (n *NameReservations) key(name string) string {
	return "upload:name:" + name
}
