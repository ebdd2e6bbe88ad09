package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/futig/databot-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLoader struct {
	calls  atomic.Int32
	corpus *entity.Corpus
	err    error
}

func (l *stubLoader) Load(ctx context.Context) (*entity.Corpus, error) {
	l.calls.Add(1)
	return l.corpus, l.err
}

func singleDocCorpus(t *testing.T) *entity.Corpus {
	t.Helper()
	corpus := entity.NewCorpus()
	require.NoError(t, corpus.Add(&entity.DocumentRecord{ID: "ventas_mx", Title: "Ventas"}))
	return corpus
}

func TestSnapshotLoadsOnce(t *testing.T) {
	loader := &stubLoader{corpus: singleDocCorpus(t)}
	mem := NewCorpusMemory(loader, zap.NewNop())

	for i := 0; i < 3; i++ {
		corpus, err := mem.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, corpus.Len())
	}

	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestSnapshotConcurrentFirstAccess(t *testing.T) {
	loader := &stubLoader{corpus: singleDocCorpus(t)}
	mem := NewCorpusMemory(loader, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			corpus, err := mem.Snapshot(context.Background())
			assert.NoError(t, err)
			assert.NotNil(t, corpus)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestSnapshotLoadErrorNotCached(t *testing.T) {
	loader := &stubLoader{err: errors.New("disco lleno")}
	mem := NewCorpusMemory(loader, zap.NewNop())

	_, err := mem.Snapshot(context.Background())
	require.Error(t, err)

	// A failed load must not poison the cache: the next access retries.
	loader.err = nil
	loader.corpus = singleDocCorpus(t)

	corpus, err := mem.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, corpus.Len())
}
