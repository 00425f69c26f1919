package domain

import (
	"bytes"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMessageIDsStrictlyIncreasing(t *testing.T) {
	prev, err := NewMessageID()
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		id, err := NewMessageID()
		require.NoError(t, err)
		// побайтовое сравнение — то же, что у uuid-колонки в postgres
		require.Equal(t, -1, bytes.Compare(prev[:], id[:]))
		prev = id
	}
}

func TestMessageIDsUniqueAcrossGoroutines(t *testing.T) {
	const (
		workers = 8
		perW    = 250
	)

	var (
		mu  sync.Mutex
		all = make(map[uuid.UUID]struct{}, workers*perW)
		wg  sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]uuid.UUID, 0, perW)
			for i := 0; i < perW; i++ {
				id, err := NewMessageID()
				if err != nil {
					t.Error(err)
					return
				}
				ids = append(ids, id)
			}
			mu.Lock()
			for _, id := range ids {
				all[id] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, all, workers*perW)
}

// listPage повторяет семантику запроса листинга: id < last, от новых к
// старым, не больше limit.
func listPage(history []uuid.UUID, last *uuid.UUID, limit int) []uuid.UUID {
	var page []uuid.UUID
	for _, id := range history {
		if last == nil || bytes.Compare(id[:], last[:]) < 0 {
			page = append(page, id)
		}
	}
	sort.Slice(page, func(i, j int) bool {
		return bytes.Compare(page[i][:], page[j][:]) > 0
	})
	if len(page) > limit {
		page = page[:limit]
	}
	return page
}

func TestMessageCursorPartitionsHistory(t *testing.T) {
	const (
		total = 53
		limit = 7
	)

	history := make([]uuid.UUID, 0, total)
	for i := 0; i < total; i++ {
		id, err := NewMessageID()
		require.NoError(t, err)
		history = append(history, id)
	}

	var (
		walked []uuid.UUID
		seen   = make(map[uuid.UUID]struct{}, total)
		last   *uuid.UUID
	)
	for {
		page := listPage(history, last, limit)
		if len(page) == 0 {
			break
		}
		require.LessOrEqual(t, len(page), limit)
		for _, id := range page {
			_, dup := seen[id]
			require.False(t, dup, "message delivered twice")
			seen[id] = struct{}{}
		}
		walked = append(walked, page...)
		cursor := page[len(page)-1]
		last = &cursor
	}

	// ни пропусков, ни повторов: обход отдаёт всю историю от новых к старым
	require.Len(t, walked, total)
	for i, id := range walked {
		require.Equal(t, history[total-1-i], id)
	}
}
