package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/pkg/mistral"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	agentSourceEnv     = "env"
	agentSourceRedis   = "redis"
	agentSourceCreated = "created"
)

var ErrAgentsUnavailable = errors.New("agents are not configured")

// IAgentRegistry resolves catalog keys (router, intake, ...) to vendor agent ids.
type IAgentRegistry interface {
	Resolve(ctx context.Context, key string) (string, error)
	InitAgents(ctx context.Context) (map[string]string, error)
	Status(ctx context.Context) map[string]dto.AgentStatus
	KeyFor(agentID, agentName string) string
	Configured() bool
}

type agentEntry struct {
	id     string
	source string
}

type agentRegistry struct {
	client  *mistral.Client
	catalog *mistral.Catalog
	rdb     *redis.Client
	cfg     config.MistralConfig
	logger  logger.ILogger

	mu     sync.RWMutex
	agents map[string]agentEntry
	group  singleflight.Group
}

// NewAgentRegistry seeds the registry with agent ids pinned in the environment. rdb may be nil.
func NewAgentRegistry(client *mistral.Client, catalog *mistral.Catalog, rdb *redis.Client, cfg config.MistralConfig, log logger.ILogger) IAgentRegistry {
	r := &agentRegistry{
		client:  client,
		catalog: catalog,
		rdb:     rdb,
		cfg:     cfg,
		logger:  log,
		agents:  make(map[string]agentEntry),
	}
	for key, id := range cfg.Agents {
		if id != "" {
			r.agents[key] = agentEntry{id: id, source: agentSourceEnv}
		}
	}
	return r
}

func (r *agentRegistry) Configured() bool {
	return r.client.Configured()
}

func (r *agentRegistry) cached(key string) (agentEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.agents[key]
	return e, ok
}

func (r *agentRegistry) store(key string, e agentEntry) {
	r.mu.Lock()
	r.agents[key] = e
	r.mu.Unlock()
}

// lookup checks memory, then the shared redis hash. It never creates agents.
func (r *agentRegistry) lookup(ctx context.Context, key string) (agentEntry, bool) {
	if e, ok := r.cached(key); ok {
		return e, true
	}
	if r.rdb == nil {
		return agentEntry{}, false
	}
	id, err := r.rdb.HGet(ctx, constant.RedisAgentsKey, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("Agents", "redis lookup failed", map[string]interface{}{"agent": key, "error": err})
		}
		return agentEntry{}, false
	}
	e := agentEntry{id: id, source: agentSourceRedis}
	r.store(key, e)
	return e, true
}

// Resolve returns the vendor id for key and creates the whole agent set on first miss.
func (r *agentRegistry) Resolve(ctx context.Context, key string) (string, error) {
	if _, ok := r.catalog.Get(key); !ok {
		return "", fmt.Errorf("unknown agent %q", key)
	}
	if e, ok := r.lookup(ctx, key); ok {
		return e.id, nil
	}
	if !r.client.Configured() {
		return "", ErrAgentsUnavailable
	}

	ids, err := r.InitAgents(ctx)
	if err != nil {
		return "", err
	}
	id, ok := ids[key]
	if !ok {
		return "", fmt.Errorf("agent %q missing after init", key)
	}
	return id, nil
}

// InitAgents creates every catalog agent, wires the handoff graph and publishes the ids.
// Concurrent callers share one creation run.
func (r *agentRegistry) InitAgents(ctx context.Context) (map[string]string, error) {
	v, err, _ := r.group.Do("init", func() (interface{}, error) {
		return r.initAgents(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]string), nil
}

func (r *agentRegistry) initAgents(ctx context.Context) (map[string]string, error) {
	if !r.client.Configured() {
		return nil, ErrAgentsUnavailable
	}

	ids := make(map[string]string, len(r.catalog.Agents))
	for _, spec := range r.catalog.Agents {
		agent, err := r.client.CreateAgent(ctx, r.catalog.Request(spec, r.cfg.AgentModel, r.cfg.LibraryID))
		if err != nil {
			return nil, fmt.Errorf("create agent %s: %w", spec.Key, err)
		}
		ids[spec.Key] = agent.ID
		r.logger.Info("Agents", "agent created", map[string]interface{}{"agent": spec.Key, "agent_id": agent.ID})
	}

	for _, spec := range r.catalog.Agents {
		if len(spec.Handoffs) == 0 {
			continue
		}
		targets := make([]string, 0, len(spec.Handoffs))
		for _, h := range spec.Handoffs {
			targets = append(targets, ids[h])
		}
		if _, err := r.client.SetHandoffs(ctx, ids[spec.Key], targets); err != nil {
			return nil, fmt.Errorf("set handoffs for %s: %w", spec.Key, err)
		}
	}

	for key, id := range ids {
		r.store(key, agentEntry{id: id, source: agentSourceCreated})
	}
	if r.rdb != nil {
		fields := make(map[string]interface{}, len(ids))
		for key, id := range ids {
			fields[key] = id
		}
		if err := r.rdb.HSet(ctx, constant.RedisAgentsKey, fields).Err(); err != nil {
			r.logger.Warn("Agents", "failed to publish agent ids", map[string]interface{}{"error": err})
		}
	}
	return ids, nil
}

func (r *agentRegistry) Status(ctx context.Context) map[string]dto.AgentStatus {
	out := make(map[string]dto.AgentStatus, len(r.catalog.Agents))
	for _, spec := range r.catalog.Agents {
		st := dto.AgentStatus{Name: spec.Name}
		if e, ok := r.lookup(ctx, spec.Key); ok {
			st.AgentId = e.id
			st.Source = e.source
			st.Ready = true
		}
		out[spec.Key] = st
	}
	return out
}

// KeyFor maps a vendor agent id or display name to a catalog key, "" when unknown.
func (r *agentRegistry) KeyFor(agentID, agentName string) string {
	if agentID != "" {
		r.mu.RLock()
		for key, e := range r.agents {
			if e.id == agentID {
				r.mu.RUnlock()
				return key
			}
		}
		r.mu.RUnlock()
	}
	if key, ok := r.catalog.KeyForName(agentName); ok {
		return key
	}
	return ""
}
