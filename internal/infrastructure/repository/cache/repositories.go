package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
	"github.com/riskibarqy/brawl-tracker/internal/domain/proplayer"
	basecache "github.com/riskibarqy/brawl-tracker/internal/platform/cache"
)

type ProPlayerRepository struct {
	next  proplayer.Repository
	byTag *basecache.Store[cachedProPlayer]
	top   *basecache.Store[[]proplayer.ProPlayer]
}

type cachedProPlayer struct {
	value  proplayer.ProPlayer
	exists bool
}

func NewProPlayerRepository(next proplayer.Repository, opts ...Option) *ProPlayerRepository {
	cfg := resolveOptions(opts)
	return &ProPlayerRepository{
		next:  next,
		byTag: basecache.NewStore[cachedProPlayer](cfg.ttl),
		top:   basecache.NewStore[[]proplayer.ProPlayer](cfg.ttl),
	}
}

func (r *ProPlayerRepository) GetActiveByTag(ctx context.Context, tag string) (proplayer.ProPlayer, bool, error) {
	cached, err := r.byTag.GetOrLoad(ctx, "pro:tag:"+tag, func(ctx context.Context) (cachedProPlayer, error) {
		item, exists, err := r.next.GetActiveByTag(ctx, tag)
		if err != nil {
			return cachedProPlayer{}, err
		}
		return cachedProPlayer{value: item, exists: exists}, nil
	})
	if err != nil {
		return proplayer.ProPlayer{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *ProPlayerRepository) ListTopByEarnings(ctx context.Context, limit int) ([]proplayer.ProPlayer, error) {
	key := "pro:top:" + strconv.Itoa(limit)
	items, err := r.top.GetOrLoad(ctx, key, func(ctx context.Context) ([]proplayer.ProPlayer, error) {
		items, err := r.next.ListTopByEarnings(ctx, limit)
		if err != nil {
			return nil, err
		}
		return append([]proplayer.ProPlayer(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]proplayer.ProPlayer(nil), items...), nil
}

// MetaTierRepository caches List per mode. Writes drop every cached mode.
type MetaTierRepository struct {
	next  metatier.Repository
	lists *basecache.Store[[]metatier.Entry]
}

func NewMetaTierRepository(next metatier.Repository, opts ...Option) *MetaTierRepository {
	cfg := resolveOptions(opts)
	return &MetaTierRepository{
		next:  next,
		lists: basecache.NewStore[[]metatier.Entry](cfg.ttl),
	}
}

func (r *MetaTierRepository) List(ctx context.Context, mode string) ([]metatier.Entry, error) {
	items, err := r.lists.GetOrLoad(ctx, "tier:list:"+mode, func(ctx context.Context) ([]metatier.Entry, error) {
		items, err := r.next.List(ctx, mode)
		if err != nil {
			return nil, err
		}
		return append([]metatier.Entry(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]metatier.Entry(nil), items...), nil
}

func (r *MetaTierRepository) Upsert(ctx context.Context, entry metatier.Entry) (metatier.Entry, error) {
	saved, err := r.next.Upsert(ctx, entry)
	if err != nil {
		return metatier.Entry{}, err
	}
	r.lists.DeletePrefix(ctx, "tier:list:")
	return saved, nil
}

func (r *MetaTierRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.next.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		r.lists.DeletePrefix(ctx, "tier:list:")
	}
	return deleted, nil
}
