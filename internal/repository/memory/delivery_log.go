package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DeliveryLog remembers which notifications one stream already emitted.
type DeliveryLog struct {
	cache *cache.Cache
}

func NewDeliveryLog(ttl time.Duration) *DeliveryLog {
	return &DeliveryLog{cache: cache.New(ttl, ttl)}
}

// MarkSent records id and reports whether it was new.
func (d *DeliveryLog) MarkSent(id uuid.UUID) bool {
	return d.cache.Add(id.String(), struct{}{}, cache.DefaultExpiration) == nil
}
