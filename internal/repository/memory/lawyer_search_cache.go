package memory

import (
	"fmt"
	"time"

	"sumii-mobile-api/pkg/anwalt"

	"github.com/patrickmn/go-cache"
)

const LawyerSearchTTL = 5 * time.Minute

type LawyerSearchCache struct {
	cache *cache.Cache
}

func NewLawyerSearchCache() *LawyerSearchCache {
	return &LawyerSearchCache{cache: cache.New(LawyerSearchTTL, 10*time.Minute)}
}

// SearchKey identifies one directory query.
func SearchKey(p anwalt.SearchParams) string {
	lat, lng := "", ""
	if p.Latitude != nil {
		lat = fmt.Sprintf("%.4f", *p.Latitude)
	}
	if p.Longitude != nil {
		lng = fmt.Sprintf("%.4f", *p.Longitude)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%g", p.Language, p.LegalArea, lat, lng, p.RadiusKm)
}

func (r *LawyerSearchCache) Save(key string, lawyers []anwalt.Lawyer) {
	r.cache.Set(key, lawyers, cache.DefaultExpiration)
}

func (r *LawyerSearchCache) Get(key string) ([]anwalt.Lawyer, bool) {
	if x, found := r.cache.Get(key); found {
		return x.([]anwalt.Lawyer), true
	}
	return nil, false
}

func (r *LawyerSearchCache) Flush() {
	r.cache.Flush()
}
