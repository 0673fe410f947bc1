package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// OverviewCache guarda o resultado do overview no Redis por alguns segundos.
// Miss e erro são equivalentes: a computação segue para o banco.
type OverviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOverviewCache(client *redis.Client) *OverviewCache {
	return &OverviewCache{client: client, ttl: 30 * time.Second}
}

func (c *OverviewCache) Get(ctx context.Context, key string) (*usecase.OverviewOutput, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache: leitura de %s falhou: %v", key, err)
		}
		return nil, false
	}

	var out usecase.OverviewOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return &out, true
}

func (c *OverviewCache) Set(ctx context.Context, key string, out *usecase.OverviewOutput) {
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("cache: escrita de %s falhou: %v", key, err)
	}
}
