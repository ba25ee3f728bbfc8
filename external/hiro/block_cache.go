package hiro

import (
	"context"
	"github.com/jellydator/ttlcache/v3"
	"github.com/stxrain/go-stx-rain/entities"
	"time"
)

const latestBlockKey = "latest"

type BlockHeightSource interface {
	GetLatestBlockHeight(ctx context.Context) (uint64, error)
}

// BlockHeightCache remembers the last good block height so a short outage of the
// block endpoint does not blank the displayed height.
type BlockHeightCache struct {
	source BlockHeightSource
	cache  *ttlcache.Cache[string, uint64]
}

func NewBlockHeightCache(source BlockHeightSource, ttl time.Duration) *BlockHeightCache {
	cache := ttlcache.New[string, uint64](
		ttlcache.WithTTL[string, uint64](ttl),
		ttlcache.WithDisableTouchOnHit[string, uint64](),
	)
	return &BlockHeightCache{source: source, cache: cache}
}

func (c *BlockHeightCache) GetLatestBlockHeight(ctx context.Context) (uint64, error) {
	height, err := c.source.GetLatestBlockHeight(ctx)
	if err == nil {
		c.cache.Set(latestBlockKey, height, ttlcache.DefaultTTL)
		return height, nil
	}

	item := c.cache.Get(latestBlockKey)
	if item == nil {
		return 0, err
	}
	return item.Value(), nil
}

// Start runs the expiry loop until Stop is called.
func (c *BlockHeightCache) Start() {
	c.cache.Start()
}

func (c *BlockHeightCache) Stop() {
	c.cache.Stop()
}

// CachedClient serves transactions from the client and block heights through the cache.
type CachedClient struct {
	client  *Client
	heights *BlockHeightCache
}

func NewCachedClient(client *Client, heights *BlockHeightCache) *CachedClient {
	return &CachedClient{client: client, heights: heights}
}

func (c *CachedClient) GetTransactions(ctx context.Context) ([]entities.HiroTx, error) {
	return c.client.GetTransactions(ctx)
}

func (c *CachedClient) GetLatestBlockHeight(ctx context.Context) (uint64, error) {
	return c.heights.GetLatestBlockHeight(ctx)
}
