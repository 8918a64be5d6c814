package store

import (
	"context"
	"sync"

	"tasky-cli/internal/model"

	"github.com/sirupsen/logrus"
)

type ConfigSource interface {
	Config(ctx context.Context) (model.Config, error)
}

// ConfigCache holds the server option lists, falling back to model.DefaultConfig
// for anything missing so the board stays usable offline.
type ConfigCache struct {
	src ConfigSource
	log logrus.FieldLogger

	mu  sync.RWMutex
	cfg model.Config
}

func NewConfigCache(src ConfigSource, log logrus.FieldLogger) *ConfigCache {
	return &ConfigCache{src: src, log: log, cfg: model.DefaultConfig()}
}

// Load never fails: a fetch error keeps the previous (or default) lists.
func (c *ConfigCache) Load(ctx context.Context) model.Config {
	cfg, err := c.src.Config(ctx)
	if err != nil {
		if c.log != nil {
			c.log.WithError(err).Warn("config fetch failed; using fallback option lists")
		}
		return c.Get()
	}
	cfg = cfg.WithDefaults()
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
	return cfg
}

func (c *ConfigCache) Get() model.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}
