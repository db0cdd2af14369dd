package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	items        []Item
	availability Availability
	err          error
}

func (r *stubReader) List(_ context.Context, _ Query) ([]Item, Availability, error) {
	return r.items, r.availability, r.err
}

func TestAdapter(t *testing.T) {
	ctx := context.Background()
	demoItems := []Item{{Type: TypeTrip, Key: "9001", Origin: OriginDemo}}
	liveItems := []Item{{Type: TypeTrip, Key: "1", Origin: OriginLive}}

	t.Run("requires a demo reader per source", func(t *testing.T) {
		_, err := NewAdapter(map[Type]Source{TypeTrip: {Live: &stubReader{}}})
		assert.Error(t, err)
	})

	t.Run("requires at least one source", func(t *testing.T) {
		_, err := NewAdapter(nil)
		assert.Error(t, err)
	})

	t.Run("returns both sources when live is available", func(t *testing.T) {
		adapter, err := NewAdapter(map[Type]Source{TypeTrip: {
			Live: &stubReader{items: liveItems, availability: Available},
			Demo: &stubReader{items: demoItems, availability: Available},
		}})
		require.NoError(t, err)

		fetched, err := adapter.Fetch(ctx, TypeTrip, Query{})
		require.NoError(t, err)
		assert.Equal(t, liveItems, fetched.Live)
		assert.Equal(t, demoItems, fetched.Demo)
		assert.Equal(t, Available, fetched.LiveAvailability)
	})

	t.Run("missing live reader degrades to demo only", func(t *testing.T) {
		adapter, err := NewAdapter(map[Type]Source{TypeTrip: {
			Demo: &stubReader{items: demoItems, availability: Available},
		}})
		require.NoError(t, err)

		fetched, err := adapter.Fetch(ctx, TypeTrip, Query{})
		require.NoError(t, err)
		assert.Empty(t, fetched.Live)
		assert.Equal(t, demoItems, fetched.Demo)
		assert.Equal(t, Unavailable, fetched.LiveAvailability)
	})

	t.Run("unavailable live reader is not an error", func(t *testing.T) {
		adapter, err := NewAdapter(map[Type]Source{TypeTrip: {
			Live: &stubReader{availability: Unavailable},
			Demo: &stubReader{items: demoItems, availability: Available},
		}})
		require.NoError(t, err)

		fetched, err := adapter.Fetch(ctx, TypeTrip, Query{})
		require.NoError(t, err)
		assert.Empty(t, fetched.Live)
		assert.Equal(t, Unavailable, fetched.LiveAvailability)
	})

	t.Run("live storage fault propagates", func(t *testing.T) {
		adapter, err := NewAdapter(map[Type]Source{TypeTrip: {
			Live: &stubReader{err: errors.New("connection refused")},
			Demo: &stubReader{items: demoItems, availability: Available},
		}})
		require.NoError(t, err)

		_, err = adapter.Fetch(ctx, TypeTrip, Query{})
		assert.Error(t, err)
	})

	t.Run("unknown content type errors", func(t *testing.T) {
		adapter, err := NewAdapter(map[Type]Source{TypeTrip: {
			Demo: &stubReader{availability: Available},
		}})
		require.NoError(t, err)

		_, err = adapter.Fetch(ctx, TypeBlog, Query{})
		assert.Error(t, err)
	})
}
