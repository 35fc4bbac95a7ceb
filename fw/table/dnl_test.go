package table_test

import (
	"testing"
	"time"

	"github.com/ndn-go/forwarder/fw/table"
	"github.com/stretchr/testify/require"
)

func TestPruneExpiresPendingPITIntoDeadNonceList(t *testing.T) {
	tb := table.NewTables()
	now := time.Unix(0, 0)

	// No route is registered, so Admit records the PIT entry but has no
	// next hop to return.
	_, ok := tb.Admit(buildName("a"), false, time.Millisecond, 42, 100, now)
	require.False(t, ok)

	// Past the Interest's removal-deadline: pruning resets the slot and
	// retires its nonce to the dead nonce list.
	later := now.Add(time.Second)
	tb.Prune(later)

	_, ok = tb.Admit(buildName("a"), false, time.Second, 42, 100, later)
	require.False(t, ok)
}

func TestPruneRemovesEmptyChildren(t *testing.T) {
	tb := table.NewTables()
	now := time.Unix(0, 0)

	// No route yet: the PIT entry is recorded, nothing is forwarded.
	_, ok := tb.Admit(buildName("a", "b", "c"), false, time.Millisecond, 1, 100, now)
	require.False(t, ok)

	tb.Prune(now.Add(time.Second))

	// Re-registering a route under the same prefix must create fresh,
	// empty nodes rather than finding stale leftover state.
	tb.RegisterRoute(buildName("a", "b", "c"), 9, 0)
	face, ok := tb.Admit(buildName("a", "b", "c"), false, time.Second, 2, 100, now.Add(2*time.Second))
	require.True(t, ok)
	require.Equal(t, uint64(9), face)
}

func TestPruneDropsExpiredCSEntries(t *testing.T) {
	tb := table.NewTables()
	now := time.Unix(0, 0)
	var digest [32]byte

	tb.InsertCS(buildName("a"), digest, []byte("x"), now, time.Second, time.Millisecond)
	tb.Prune(now.Add(time.Second))

	_, ok := tb.GetCS(buildName("a"), false, false, now.Add(time.Second), time.Minute)
	require.False(t, ok)
}
