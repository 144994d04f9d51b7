package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRecounter struct {
	mu      sync.Mutex
	calls   []string
	active  map[string]int
	overlap bool
	fail    string
	delay   time.Duration
}

func newRecordingRecounter() *recordingRecounter {
	return &recordingRecounter{active: make(map[string]int)}
}

func (r *recordingRecounter) Recount(_ context.Context, sector string) error {
	r.mu.Lock()
	r.active[sector]++
	if r.active[sector] > 1 {
		r.overlap = true
	}
	r.mu.Unlock()

	time.Sleep(r.delay)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[sector]--
	r.calls = append(r.calls, sector)
	if sector == r.fail {
		return errors.New("count failed")
	}
	return nil
}

func (r *recordingRecounter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestDispatcher_ProcessesEveryJob(t *testing.T) {
	rec := newRecordingRecounter()
	rec.fail = "Tax Law"
	rec.delay = time.Millisecond

	d := NewDispatcher(3, rec, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	sectors := []string{"Family Law", "Tax Law", "Criminal Law", "Family Law", "Family Law", "Tax Law"}
	for _, s := range sectors {
		d.Enqueue(s)
	}

	require.Eventually(t, func() bool { return rec.count() == len(sectors) }, 2*time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.False(t, rec.overlap, "recounts of one sector must not overlap")
	assert.ElementsMatch(t, sectors, rec.calls)
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, newRecordingRecounter(), zerolog.Nop())
	for _, s := range []string{"Family Law", "Tax Law", "", "Derecho Penal"} {
		idx := d.shardIndex(s)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 8)
		assert.Equal(t, idx, d.shardIndex(s))
	}
}

func TestDispatcher_DefaultsWorkers(t *testing.T) {
	d := NewDispatcher(0, newRecordingRecounter(), zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	// Not started: nothing drains the channel.
	d := NewDispatcher(1, newRecordingRecounter(), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for range channelBuffer + 10 {
			d.Enqueue("Family Law")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
	assert.Len(t, d.workers[0], channelBuffer)
}

func TestDispatcher_StopsOnCancel(t *testing.T) {
	rec := newRecordingRecounter()
	d := NewDispatcher(1, rec, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	time.Sleep(20 * time.Millisecond)
	d.Enqueue("Family Law")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}
