package application

import (
	"context"
	"fmt"
	"strconv"
)

const (
	// TotalKey is evicted with every list invalidation.
	TotalKey = "users:total"
	// GenerationKey holds the current list generation for GenerationPolicy.
	GenerationKey = "users:list:generation"

	sweepMaxPage = 10
)

// sweepLimits are the page sizes whose pages are evicted by SweepPolicy.
var sweepLimits = []int{10, 20, 50}

// ListCachePolicy decides where a (page, limit) result is cached and how all of
// them are dropped after a write.
type ListCachePolicy interface {
	Key(ctx context.Context, page, limit int) (string, error)
	Invalidate(ctx context.Context) error
}

func ListKey(page, limit int) string {
	return "users:list:" + strconv.Itoa(page) + ":" + strconv.Itoa(limit)
}

// SweepPolicy caches under users:list:<page>:<limit> and invalidates by deleting
// pages 1..10 for limits 10, 20 and 50. Pages cached under any other pair are
// not evicted and stay stale until their TTL runs out.
type SweepPolicy struct {
	Store CacheStore
}

func NewSweepPolicy(store CacheStore) *SweepPolicy {
	return &SweepPolicy{Store: store}
}

func (p *SweepPolicy) Key(_ context.Context, page, limit int) (string, error) {
	return ListKey(page, limit), nil
}

func (p *SweepPolicy) Invalidate(ctx context.Context) error {
	if err := p.Store.Delete(ctx, SweepKeys()...); err != nil {
		return fmt.Errorf("evict list pages: %w", err)
	}
	if err := p.Store.Delete(ctx, TotalKey); err != nil {
		return fmt.Errorf("evict list total: %w", err)
	}
	return nil
}

// SweepKeys lists the 30 keys SweepPolicy evicts, in page-major order.
func SweepKeys() []string {
	keys := make([]string, 0, sweepMaxPage*len(sweepLimits))
	for page := 1; page <= sweepMaxPage; page++ {
		for _, limit := range sweepLimits {
			keys = append(keys, ListKey(page, limit))
		}
	}
	return keys
}

// GenerationPolicy embeds a generation counter in every list key and bumps it
// on invalidation, so every page cached before a write becomes unreachable
// whatever its (page, limit). Superseded entries expire by TTL.
type GenerationPolicy struct {
	Store CacheStore
}

func NewGenerationPolicy(store CacheStore) *GenerationPolicy {
	return &GenerationPolicy{Store: store}
}

func (p *GenerationPolicy) Key(ctx context.Context, page, limit int) (string, error) {
	var gen int64
	if _, err := p.Store.GetJSON(ctx, GenerationKey, &gen); err != nil {
		return "", fmt.Errorf("read list generation: %w", err)
	}
	return fmt.Sprintf("users:list:v%d:%d:%d", gen, page, limit), nil
}

func (p *GenerationPolicy) Invalidate(ctx context.Context) error {
	if _, err := p.Store.Incr(ctx, GenerationKey); err != nil {
		return fmt.Errorf("bump list generation: %w", err)
	}
	if err := p.Store.Delete(ctx, TotalKey); err != nil {
		return fmt.Errorf("evict list total: %w", err)
	}
	return nil
}
