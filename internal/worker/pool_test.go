package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReturnsValue(t *testing.T) {
	p := New(2)

	got, err := Run(context.Background(), p, func() (string, error) { return "hash", nil })
	require.NoError(t, err)
	assert.Equal(t, "hash", got)

	boom := errors.New("boom")
	_, err = Run(context.Background(), p, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}

func TestNilPoolRunsInline(t *testing.T) {
	var p *Pool
	ran := false
	require.NoError(t, p.Do(context.Background(), func() error {
		ran = true
		return nil
	}))
	assert.True(t, ran)
}

func TestPoolBoundsConcurrency(t *testing.T) {
	p := New(2)
	var running, peak atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Do(context.Background(), func() error {
				n := running.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				running.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, 2, p.Size())
}

func TestDoHonoursContext(t *testing.T) {
	p := New(1)
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = p.Do(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Do(ctx, func() error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
}

func TestNewDefaultsToNumCPU(t *testing.T) {
	assert.Positive(t, New(0).Size())
}
