package library

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherPublishesEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, "library.events")
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(ctx) // wait for the subscription confirmation
	require.NoError(t, err)

	pub := NewPublisher(rdb, log.New(io.Discard))
	pub.Publish(ctx, "playlist.created", map[string]string{"id": "p1"})

	msg, err := sub.ReceiveTimeout(ctx, 2*time.Second)
	require.NoError(t, err)
	m, ok := msg.(*redis.Message)
	require.True(t, ok, "expected a message, got %T", msg)

	var body struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(m.Payload), &body))
	assert.Equal(t, "playlist.created", body.Type)
	assert.Equal(t, "p1", body.Payload["id"])
}

func TestNoEventsForNoOpMutations(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := newTestStore(t, nil)
	srv := NewServer(store, NewPublisher(rdb, log.New(io.Discard)))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, "library.events")
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	pl := createPlaylist(t, ts, "mix")

	// One real add, then two lenient no-ops that must stay silent.
	resp, _ := doJSON(t, "POST", ts.URL+"/"+pl.ID+"/songs", Song{ID: "a", Duration: "3:45"})
	require.Equal(t, 200, resp.StatusCode)
	resp, _ = doJSON(t, "POST", ts.URL+"/"+pl.ID+"/songs", Song{ID: "a", Duration: "3:45"})
	require.Equal(t, 200, resp.StatusCode)
	resp, _ = doJSON(t, "DELETE", ts.URL+"/"+pl.ID+"/songs/missing", nil)
	require.Equal(t, 200, resp.StatusCode)

	var types []string
	for {
		msg, err := sub.ReceiveTimeout(ctx, 200*time.Millisecond)
		if err != nil {
			break
		}
		m, ok := msg.(*redis.Message)
		if !ok {
			continue
		}
		var body struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal([]byte(m.Payload), &body))
		types = append(types, body.Type)
	}
	assert.Equal(t, []string{"playlist.created", "song.added"}, types)
}

func TestPublisherNilSafe(t *testing.T) {
	var pub *Publisher
	assert.NotPanics(t, func() {
		pub.Publish(context.Background(), "playlist.created", nil)
	})

	disabled := NewPublisher(nil, log.New(io.Discard))
	assert.NotPanics(t, func() {
		disabled.Publish(context.Background(), "playlist.created", nil)
	})
}
