package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAssignsIDsAndTimestamps(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := BeeTraffic{Level: "high"}
	second := BeeTraffic{Level: "low"}
	require.NoError(t, store.CreateBeeTraffic(ctx, &first))
	require.NoError(t, store.CreateBeeTraffic(ctx, &second))

	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, uint(2), second.ID)
	assert.False(t, first.Timestamp.IsZero())

	reports, err := store.ListBeeTraffic(ctx)
	require.NoError(t, err)
	assert.Equal(t, []BeeTraffic{first, second}, reports)
}

func TestMemoryStoreTruncatesTimestamps(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 999999999, time.UTC) }
	defer func() { now = restore }()

	store := NewMemoryStore()
	plan := CropRotation{Crop: "corn", Soil: "loamy", Duration: "3", Plan: "beans"}
	require.NoError(t, store.CreateCropRotation(context.Background(), &plan))
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 999000000, time.UTC), plan.Timestamp)

	plans, err := store.ListCropRotations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []CropRotation{plan}, plans)
}

func TestMemoryStoreChatsSortedByTimestamp(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateChat(ctx, &Chat{Message: "later", Timestamp: base.Add(time.Minute)}))
	require.NoError(t, store.CreateChat(ctx, &Chat{Message: "earlier", Timestamp: base}))

	chats, err := store.ListChats(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "earlier", chats[0].Message)
	assert.Equal(t, "later", chats[1].Message)
}

func TestMemoryStoreEmptyListsAreNotNil(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	chats, err := store.ListChats(ctx)
	require.NoError(t, err)
	assert.NotNil(t, chats)
	assert.Empty(t, chats)

	plans, err := store.ListCropRotations(ctx)
	require.NoError(t, err)
	assert.NotNil(t, plans)
	assert.Empty(t, plans)
}

func TestMemoryStoreConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.CreateCropRotation(ctx, &CropRotation{Crop: "corn", Soil: "loamy", Duration: "3", Plan: "p"})
		}()
	}
	wg.Wait()

	plans, err := store.ListCropRotations(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 50)

	seen := map[uint]bool{}
	for _, p := range plans {
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
	}
}
