package history_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/5w1tchy/strength-api/internal/session"
	"github.com/5w1tchy/strength-api/internal/store/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_AppendDedupAndOrder(t *testing.T) {
	st := history.NewMemory()
	ctx := t.Context()

	require.NoError(t, st.Append(ctx, "s1", session.Entry{ID: "a", Fingerprint: "f1"}, 0))
	require.NoError(t, st.Append(ctx, "s1", session.Entry{ID: "b", Fingerprint: "f2"}, 0))
	assert.ErrorIs(t, st.Append(ctx, "s1", session.Entry{ID: "c", Fingerprint: "f1"}, 0), session.ErrDuplicate)
	require.NoError(t, st.Append(ctx, "s2", session.Entry{ID: "d", Fingerprint: "f1"}, 0))

	got, err := st.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	n, err := st.Count(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemory_UnlockIsIdempotent(t *testing.T) {
	st := history.NewMemory()
	ctx := t.Context()

	require.NoError(t, st.Unlock(ctx, "s1", session.HighEntropy))
	require.NoError(t, st.Unlock(ctx, "s1", session.HighEntropy, session.Unbreakable))

	got, err := st.Achievements(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{session.HighEntropy, session.Unbreakable}, got)
}

func TestMemory_LimitHoldsUnderConcurrentAppends(t *testing.T) {
	st := history.NewMemory()
	ctx := t.Context()

	const limit, writers = 5, 40
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		stored int
		full   int
	)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := st.Append(ctx, "s1", session.Entry{ID: fmt.Sprint(i), Fingerprint: fmt.Sprint("f", i)}, limit)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				stored++
			case errors.Is(err, session.ErrHistoryFull):
				full++
			default:
				t.Errorf("unexpected err: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, stored)
	assert.Equal(t, writers-limit, full)
	n, err := st.Count(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, limit, n)
}

func TestMemory_FullWinsOverDuplicate(t *testing.T) {
	st := history.NewMemory()
	ctx := t.Context()

	require.NoError(t, st.Append(ctx, "s1", session.Entry{ID: "a", Fingerprint: "f1"}, 1))
	assert.ErrorIs(t, st.Append(ctx, "s1", session.Entry{ID: "b", Fingerprint: "f1"}, 1), session.ErrHistoryFull)
}
