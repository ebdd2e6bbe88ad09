package repository

import (
	"context"
	"sync/atomic"

	"github.com/futig/databot-backend/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CorpusLoader produces the full document corpus. Called at most once per
// process lifetime.
type CorpusLoader interface {
	Load(ctx context.Context) (*entity.Corpus, error)
}

// CorpusMemory caches the loaded corpus for the process lifetime. The load
// runs on first access under a single-flight guard so concurrent first
// readers share one expensive ingestion pass. There is no invalidation path;
// a process restart is the only refresh mechanism.
type CorpusMemory struct {
	loader CorpusLoader
	group  singleflight.Group
	cached atomic.Pointer[entity.Corpus]
	logger *zap.Logger
}

func NewCorpusMemory(loader CorpusLoader, logger *zap.Logger) *CorpusMemory {
	return &CorpusMemory{
		loader: loader,
		logger: logger,
	}
}

// Snapshot returns the corpus, loading it on first use. The returned value
// is read-only and safe to share across requests.
func (c *CorpusMemory) Snapshot(ctx context.Context) (*entity.Corpus, error) {
	if corpus := c.cached.Load(); corpus != nil {
		return corpus, nil
	}

	v, err, _ := c.group.Do("corpus", func() (any, error) {
		if corpus := c.cached.Load(); corpus != nil {
			return corpus, nil
		}

		c.logger.Info("loading document corpus")
		corpus, err := c.loader.Load(ctx)
		if err != nil {
			return nil, err
		}

		c.logger.Info("document corpus loaded", zap.Int("documents", corpus.Len()))
		c.cached.Store(corpus)
		return corpus, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entity.Corpus), nil
}
