package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	listingKeyPrefix = "listing:"
	searchKeyPrefix  = "listings:search:"
	generationKey    = "listings:gen"
)

// NewRedisClient connects and pings Redis.
func NewRedisClient(addr, password string, db int, log *logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("Failed to connect to Redis", zap.String("address", addr), zap.Error(err))
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	log.Info("Successfully connected to Redis", zap.String("address", addr))
	return rdb, nil
}

// ListingCache caches search pages and single listings in Redis.
//
// Every key carries a generation number. Any listing write increments the
// generation, so entries cached before the write are never read again and
// simply expire. Fills are written under the generation read before the
// database query, never the current one.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewListingCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *ListingCache {
	return &ListingCache{
		client: client,
		ttl:    ttl,
		logger: log.Named("ListingCache"),
	}
}

func listingKey(gen domain.CacheGeneration, id primitive.ObjectID) string {
	return listingKeyPrefix + strconv.FormatInt(int64(gen), 10) + ":" + id.Hex()
}

// queryFingerprint hashes q in a form that does not depend on the order the
// passthrough conditions were parsed in.
func queryFingerprint(q domain.ListingQuery) (string, error) {
	conds := make([]domain.FieldCondition, len(q.Conditions))
	copy(conds, q.Conditions)
	sort.SliceStable(conds, func(i, j int) bool {
		if conds[i].Field != conds[j].Field {
			return conds[i].Field < conds[j].Field
		}
		return conds[i].Op < conds[j].Op
	})
	q.Conditions = conds

	raw, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func (c *ListingCache) generation(ctx context.Context) (domain.CacheGeneration, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		c.logger.Warn("Failed to read cache generation", zap.Error(err))
		return 0, fmt.Errorf("ListingCache.generation: %w", err)
	}
	return domain.CacheGeneration(gen), nil
}

func pageKey(gen domain.CacheGeneration, q domain.ListingQuery) (string, error) {
	fp, err := queryFingerprint(q)
	if err != nil {
		return "", err
	}
	return searchKeyPrefix + strconv.FormatInt(int64(gen), 10) + ":" + fp, nil
}

func (c *ListingCache) get(ctx context.Context, key string, dst interface{}) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrCacheMiss
		}
		c.logger.Warn("Redis Get operation failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("ListingCache.get for key '%s': %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return domain.ErrCacheMiss
	}
	return nil
}

func (c *ListingCache) set(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ListingCache.set marshal for key '%s': %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis Set operation failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("ListingCache.set for key '%s': %w", key, err)
	}
	c.logger.Debug("Redis Set operation successful", zap.String("key", key), zap.Duration("ttl", c.ttl))
	return nil
}

func (c *ListingCache) GetPage(ctx context.Context, q domain.ListingQuery) (*domain.ListingPage, domain.CacheGeneration, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, err
	}
	key, err := pageKey(gen, q)
	if err != nil {
		return nil, 0, err
	}
	var page domain.ListingPage
	if err := c.get(ctx, key, &page); err != nil {
		return nil, gen, err
	}
	return &page, gen, nil
}

func (c *ListingCache) SetPage(ctx context.Context, gen domain.CacheGeneration, q domain.ListingQuery, page *domain.ListingPage) error {
	key, err := pageKey(gen, q)
	if err != nil {
		return err
	}
	return c.set(ctx, key, page)
}

func (c *ListingCache) GetListing(ctx context.Context, id primitive.ObjectID) (*domain.ListingView, domain.CacheGeneration, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, err
	}
	var view domain.ListingView
	if err := c.get(ctx, listingKey(gen, id), &view); err != nil {
		return nil, gen, err
	}
	return &view, gen, nil
}

func (c *ListingCache) SetListing(ctx context.Context, gen domain.CacheGeneration, view *domain.ListingView) error {
	return c.set(ctx, listingKey(gen, view.ID), view)
}

func (c *ListingCache) bump(ctx context.Context) error {
	return c.client.Incr(ctx, generationKey).Err()
}

func (c *ListingCache) Invalidate(ctx context.Context, id primitive.ObjectID) error {
	if err := c.bump(ctx); err != nil {
		c.logger.Warn("Listing cache invalidation failed", zap.String("listing_id", id.Hex()), zap.Error(err))
		return fmt.Errorf("ListingCache.Invalidate for listing '%s': %w", id.Hex(), err)
	}
	c.logger.Debug("Listing cache invalidated", zap.String("listing_id", id.Hex()))
	return nil
}

func (c *ListingCache) InvalidateAll(ctx context.Context) error {
	if err := c.bump(ctx); err != nil {
		c.logger.Warn("Listing cache invalidation failed", zap.Error(err))
		return fmt.Errorf("ListingCache.InvalidateAll: %w", err)
	}
	c.logger.Debug("Listing cache invalidated")
	return nil
}
