package persist

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/wellday/internal/kv/memory"
)

type sample struct {
	Items []string `json:"items"`
	Note  string   `json:"note"`
}

func cloneSample(s sample) sample {
	s.Items = append([]string(nil), s.Items...)
	return s
}

// gatedBackend blocks every Set until release is closed
type gatedBackend struct {
	*memory.Store
	entered chan string
	release chan struct{}

	mu     sync.Mutex
	writes []string
}

func newGatedBackend() *gatedBackend {
	return &gatedBackend{
		Store:   memory.New(),
		entered: make(chan string, 16),
		release: make(chan struct{}),
	}
}

func (g *gatedBackend) Set(ctx context.Context, key, value string) error {
	g.mu.Lock()
	g.writes = append(g.writes, value)
	g.mu.Unlock()
	g.entered <- value
	<-g.release
	return g.Store.Set(ctx, key, value)
}

func (g *gatedBackend) Writes() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.writes...)
}

type failingBackend struct {
	*memory.Store
	err error
}

func (f *failingBackend) Set(context.Context, string, string) error { return f.err }

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(sample{Items: []string{"a"}, Note: "n"}, 1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":{"items":["a"],"note":"n"},"version":1}`, string(data))

	got, err := Decode[sample](data, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, sample{Items: []string{"a"}, Note: "n"}, got)
}

func TestDecodeVersions(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		migrate MigrateFunc
		want    sample
		wantErr error
	}{
		{
			name: "older version without hook is read as-is",
			data: `{"state":{"note":"old"},"version":0}`,
			want: sample{Note: "old"},
		},
		{
			name: "older version goes through migrate",
			data: `{"state":{"text":"legacy"},"version":0}`,
			migrate: func(from int, raw json.RawMessage) (json.RawMessage, error) {
				var legacy struct {
					Text string `json:"text"`
				}
				if err := json.Unmarshal(raw, &legacy); err != nil {
					return nil, err
				}
				return json.Marshal(sample{Note: legacy.Text})
			},
			want: sample{Note: "legacy"},
		},
		{
			name:    "newer version is rejected",
			data:    `{"state":{},"version":2}`,
			wantErr: ErrVersionTooNew,
		},
		{
			name: "null state decodes to zero value",
			data: `{"state":null,"version":1}`,
			want: sample{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode[sample]([]byte(tt.data), 1, tt.migrate)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode[sample]([]byte("not json"), 1, nil)
	assert.Error(t, err)

	_, err = Decode[sample]([]byte(`{"state":{"items":"x"},"version":1}`), 1, nil)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	_, ok, err := Load[sample](ctx, backend, "k", 1, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, backend.Set(ctx, "k", `{"state":{"note":"x"},"version":1}`))
	got, ok, err := Load[sample](ctx, backend, "k", 1, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", got.Note)
}

func TestWriterWritesAndFlushes(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	w := NewWriter(backend, "k")
	defer w.Close(ctx)

	w.Save([]byte("one"))
	require.NoError(t, w.Flush(ctx))

	v, ok, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one", v)

	st := w.Status()
	assert.Equal(t, "k", st.Key)
	assert.False(t, st.LastSaved.IsZero())
	assert.NoError(t, st.LastError)
	assert.False(t, st.Pending)
}

func TestWriterCoalescesToLatest(t *testing.T) {
	ctx := context.Background()
	backend := newGatedBackend()
	w := NewWriter(backend, "k")

	w.Save([]byte("1"))
	select {
	case <-backend.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first write never started")
	}

	w.Save([]byte("2"))
	w.Save([]byte("3"))
	w.Save([]byte("4"))
	assert.True(t, w.Status().Pending)
	close(backend.release)

	require.NoError(t, w.Flush(ctx))
	require.NoError(t, w.Close(ctx))

	assert.Equal(t, []string{"1", "4"}, backend.Writes())
	v, _, err := backend.Store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "4", v)
}

func TestWriterRecordsFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	w := NewWriter(&failingBackend{Store: memory.New(), err: boom}, "k")
	defer w.Close(ctx)

	w.Save([]byte("x"))
	assert.ErrorIs(t, w.Flush(ctx), boom)

	st := w.Status()
	assert.ErrorIs(t, st.LastError, boom)
	assert.True(t, st.LastSaved.IsZero())
	assert.Equal(t, 1, st.Writes)
}

func TestWriterCloseDrainsAndDropsLateSaves(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	w := NewWriter(backend, "k")

	w.Save([]byte("final"))
	require.NoError(t, w.Close(ctx))
	require.NoError(t, w.Close(ctx))

	v, ok, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "final", v)

	w.Save([]byte("late"))
	assert.ErrorIs(t, w.Status().LastError, ErrWriterClosed)
	v, _, _ = backend.Get(ctx, "k")
	assert.Equal(t, "final", v)
}

func TestWriterFlushHonorsContext(t *testing.T) {
	backend := newGatedBackend()
	w := NewWriter(backend, "k")
	defer func() {
		close(backend.release)
		_ = w.Close(context.Background())
	}()

	w.Save([]byte("slow"))
	<-backend.entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Flush(ctx), context.DeadlineExceeded)
}

func TestContainerUpdatePersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	c := NewContainer(backend, sample{Note: "default"}, Options[sample]{Key: "k", Version: 1, Clone: cloneSample})
	defer c.Close(ctx)

	var seen []sample
	unsubscribe := c.Subscribe(func(s sample) { seen = append(seen, s) })
	defer unsubscribe()

	require.NoError(t, c.Update(func(s *sample) (bool, error) {
		s.Items = append(s.Items, "a")
		return true, nil
	}))
	require.NoError(t, c.Update(func(s *sample) (bool, error) { return false, nil }))

	require.Len(t, seen, 1)
	assert.Equal(t, []string{"a"}, seen[0].Items)

	require.NoError(t, c.Flush(ctx))
	got, ok, err := Load[sample](ctx, backend, "k", 1, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sample{Items: []string{"a"}, Note: "default"}, got)
}

func TestContainerUpdateError(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	c := NewContainer(backend, sample{}, Options[sample]{Key: "k", Version: 1})
	defer c.Close(ctx)

	calls := 0
	c.Subscribe(func(sample) { calls++ })

	errNope := errors.New("nope")
	err := c.Update(func(*sample) (bool, error) { return false, errNope })
	assert.ErrorIs(t, err, errNope)
	assert.Equal(t, 0, calls)

	require.NoError(t, c.Flush(ctx))
	_, ok, _ := backend.Get(ctx, "k")
	assert.False(t, ok)
}

func TestContainerRecordsEncodeFailures(t *testing.T) {
	type reading struct {
		Value float64 `json:"value"`
	}
	ctx := context.Background()
	backend := memory.New()
	c := NewContainer(backend, reading{}, Options[reading]{Key: "k", Version: 1})
	defer c.Close(ctx)

	require.NoError(t, c.Update(func(r *reading) (bool, error) {
		r.Value = math.NaN()
		return true, nil
	}))
	assert.Error(t, c.Flush(ctx))
	assert.Error(t, c.Status().LastError)
	_, ok, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Update(func(r *reading) (bool, error) {
		r.Value = 2
		return true, nil
	}))
	require.NoError(t, c.Flush(ctx))
	assert.NoError(t, c.Status().LastError)
	got, ok, err := Load[reading](ctx, backend, "k", 1, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float64(2), got.Value)
}

func TestContainerGetReturnsCopy(t *testing.T) {
	c := NewContainer(memory.New(), sample{Items: []string{"a"}}, Options[sample]{Key: "k", Version: 1, Clone: cloneSample})
	defer c.Close(context.Background())

	got := c.Get()
	got.Items[0] = "mutated"
	assert.Equal(t, "a", c.Get().Items[0])
}

func TestContainerHydrate(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key keeps defaults", func(t *testing.T) {
		c := NewContainer(memory.New(), sample{Note: "default"}, Options[sample]{Key: "k", Version: 1})
		defer c.Close(ctx)
		assert.False(t, c.Hydrated())
		require.NoError(t, c.Hydrate(ctx))
		assert.True(t, c.Hydrated())
		assert.Equal(t, "default", c.Get().Note)
	})

	t.Run("stored state overwrites and is normalized", func(t *testing.T) {
		backend := memory.New()
		require.NoError(t, backend.Set(ctx, "k", `{"state":{"items":["b","a"],"note":"stored"},"version":1}`))
		c := NewContainer(backend, sample{Note: "default"}, Options[sample]{
			Key:     "k",
			Version: 1,
			Normalize: func(s sample) sample {
				s.Items = s.Items[:1]
				return s
			},
		})
		defer c.Close(ctx)

		published := 0
		c.Subscribe(func(sample) { published++ })
		require.NoError(t, c.Hydrate(ctx))
		assert.Equal(t, sample{Items: []string{"b"}, Note: "stored"}, c.Get())
		assert.Equal(t, 1, published)
	})

	t.Run("corrupt state keeps defaults", func(t *testing.T) {
		backend := memory.New()
		require.NoError(t, backend.Set(ctx, "k", "{"))
		c := NewContainer(backend, sample{Note: "default"}, Options[sample]{Key: "k", Version: 1})
		defer c.Close(ctx)
		assert.Error(t, c.Hydrate(ctx))
		assert.Equal(t, "default", c.Get().Note)
		assert.False(t, c.Hydrated())
	})
}
