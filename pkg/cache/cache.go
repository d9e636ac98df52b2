package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"shopsite/internal/models"
)

// Key layout. Customer order listings and product detail responses are the
// two cached surfaces; invalidation is by exact key.
const (
	productDetailKeyFmt  = "product_detail_response_%s"
	customerOrdersKeyFmt = "customer_orders_%s"

	defaultTTL = 10 * time.Minute
)

// Client wraps a Redis connection for response caching and invalidation.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// Config holds Redis connection details.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient creates a new cache client and verifies the connection.
func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	log.Printf("Redis cache connected at %s", cfg.Addr)
	return &Client{rdb: rdb, ttl: defaultTTL}, nil
}

// Close closes the underlying Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetProduct returns the cached product detail, or nil on a cache miss.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	key := fmt.Sprintf(productDetailKeyFmt, id)
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		log.Printf("Dropping corrupt cache entry %s: %v", key, err)
		c.rdb.Del(ctx, key)
		return nil, nil
	}
	return &product, nil
}

// SetProduct caches the product detail response.
func (c *Client) SetProduct(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s for cache: %w", product.ID, err)
	}
	key := fmt.Sprintf(productDetailKeyFmt, product.ID)
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// InvalidateProduct drops the cached detail for a product. Called whenever
// the product or its stock changes.
func (c *Client) InvalidateProduct(ctx context.Context, id string) error {
	key := fmt.Sprintf(productDetailKeyFmt, id)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache key %s: %w", key, err)
	}
	return nil
}

// InvalidateCustomer drops the customer's cached order listing. Called when
// an order of theirs changes state.
func (c *Client) InvalidateCustomer(ctx context.Context, customerID string) error {
	key := fmt.Sprintf(customerOrdersKeyFmt, customerID)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache key %s: %w", key, err)
	}
	return nil
}
