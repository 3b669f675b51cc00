package notify

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFeedDrainsInOrder(t *testing.T) {
	feed := NewFeed(4)
	Success(feed, "cart.add", "Gear added to cart")
	Error(feed, "cart.remove", "Error removing from cart")

	got := feed.Drain()
	assert.Len(t, got, 2)
	assert.Equal(t, LevelSuccess, got[0].Level)
	assert.Equal(t, "Gear added to cart", got[0].Message)
	assert.Equal(t, LevelError, got[1].Level)

	assert.Empty(t, feed.Drain())
	assert.NotNil(t, feed.Drain())
}

// A feed never holds more than its capacity and keeps the newest entries.
func TestProperty_FeedIsBounded(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("feed keeps the newest capacity notifications", prop.ForAll(
		func(capacity int, count int) bool {
			feed := NewFeed(capacity)
			for i := 0; i < count; i++ {
				Info(feed, "op", fmt.Sprint(i))
			}

			got := feed.Drain()
			want := count
			if want > capacity {
				want = capacity
			}
			if len(got) != want {
				return false
			}
			if want > 0 && got[len(got)-1].Message != fmt.Sprint(count-1) {
				return false
			}
			return true
		},
		gen.IntRange(1, 16),
		gen.IntRange(0, 64),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestMultiAndLog(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	feed := NewFeed(0)

	Error(Multi{feed, NewLog(zap.New(core))}, "wishlist.add", "Error adding to wishlist")

	assert.Equal(t, 1, feed.Len())
	entries := logs.FilterMessage("Shopper notified of failure").All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "wishlist.add", entries[0].ContextMap()["op"])
}
