package table_test

import (
	"testing"
	"time"

	"github.com/ndn-go/forwarder/fw/table"
	"github.com/ndn-go/forwarder/std/encoding"
	"github.com/stretchr/testify/require"
)

func TestAdmitNewInterestReturnsHighestPriorityFace(t *testing.T) {
	tb := table.NewTables()
	tb.RegisterRoute(buildName("a"), 7, 0)

	face, ok := tb.Admit(buildName("a"), false, time.Second, 1, 100, time.Unix(0, 0))
	require.True(t, ok)
	require.Equal(t, uint64(7), face)
}

func TestAdmitRejectsEmptyName(t *testing.T) {
	tb := table.NewTables()
	_, ok := tb.Admit(encoding.EmptyName, false, time.Second, 1, 100, time.Unix(0, 0))
	require.False(t, ok)
}

func TestAdmitDetectsLoopedNonce(t *testing.T) {
	tb := table.NewTables()
	tb.RegisterRoute(buildName("a"), 7, 0)
	now := time.Unix(0, 0)

	_, ok := tb.Admit(buildName("a"), false, time.Second, 1, 100, now)
	require.True(t, ok)

	// Same nonce arriving from a different face: loop detected.
	_, ok = tb.Admit(buildName("a"), false, time.Second, 1, 200, now)
	require.False(t, ok)
}

func TestAdmitSuppressesImmediateRetransmission(t *testing.T) {
	tb := table.NewTables()
	tb.RegisterRoute(buildName("a"), 7, 0)
	now := time.Unix(0, 0)

	_, ok := tb.Admit(buildName("a"), false, time.Second, 1, 100, now)
	require.True(t, ok)

	// Retransmission from the same face with a new nonce, well inside
	// the 16ms backoff window (transmission-count is 1 at this point).
	_, ok = tb.Admit(buildName("a"), false, time.Second, 2, 100, now.Add(time.Millisecond))
	require.False(t, ok)
}

func TestAdmitRetransmitsAfterBackoffAndRotatesCandidates(t *testing.T) {
	tb := table.NewTables()
	tb.RegisterRoute(buildName("a"), 1, 10) // higher cost, lower priority
	tb.RegisterRoute(buildName("a"), 2, 0)  // lower cost, highest priority
	t0 := time.Unix(0, 0)

	face, ok := tb.Admit(buildName("a"), false, time.Second, 1, 100, t0)
	require.True(t, ok)
	require.Equal(t, uint64(2), face) // lowest cost wins first

	// transmission-count is 1; backoff is 8ms*2^1 = 16ms.
	t1 := t0.Add(20 * time.Millisecond)
	face, ok = tb.Admit(buildName("a"), false, time.Second, 2, 100, t1)
	require.True(t, ok)
	require.Equal(t, uint64(2), face) // rotation index lands on the same face again

	// transmission-count is now 2; backoff is 8ms*2^2 = 32ms.
	t2 := t1.Add(40 * time.Millisecond)
	face, ok = tb.Admit(buildName("a"), false, time.Second, 3, 100, t2)
	require.True(t, ok)
	require.Equal(t, uint64(1), face) // now rotated to the other candidate
}

func TestAdmitMovesStaleNonceToDNL(t *testing.T) {
	tb := table.NewTables()
	tb.RegisterRoute(buildName("a"), 7, 0)
	t0 := time.Unix(0, 0)

	_, ok := tb.Admit(buildName("a"), false, time.Second, 1, 100, t0)
	require.True(t, ok)

	// Same origin, new nonce, past the 16ms backoff window -- replaces
	// the resident nonce and retires the old one to the DNL.
	t1 := t0.Add(20 * time.Millisecond)
	_, ok = tb.Admit(buildName("a"), false, time.Second, 2, 100, t1)
	require.True(t, ok)

	// The retired nonce must now be rejected as a dead nonce.
	_, ok = tb.Admit(buildName("a"), false, time.Second, 1, 100, t1.Add(time.Millisecond))
	require.False(t, ok)
}

func TestSatisfyDrainsExactAndAncestorPrefixSlots(t *testing.T) {
	tb := table.NewTables()
	now := time.Unix(0, 0)

	// No route is registered, so Admit records each PIT entry but has no
	// next hop to return.
	_, ok := tb.Admit(buildName("a", "b"), false, time.Second, 1, 100, now)
	require.False(t, ok)
	_, ok = tb.Admit(buildName("a"), true, time.Second, 2, 200, now)
	require.False(t, ok)

	faces := tb.Satisfy(buildName("a", "b"), now, func() [32]byte { return [32]byte{} })
	require.ElementsMatch(t, []uint64{100, 200}, faces)

	// Draining is one-shot: a second Data does not re-satisfy the same interest.
	faces = tb.Satisfy(buildName("a", "b"), now, func() [32]byte { return [32]byte{} })
	require.Empty(t, faces)
}

func TestSatisfyDoesNotDrainAncestorExactSlot(t *testing.T) {
	tb := table.NewTables()
	now := time.Unix(0, 0)

	// Exact (non-prefix) interest pending at the ancestor /a must not be
	// satisfied by Data named /a/b. No route is registered, so Admit
	// records the entry without returning a next hop.
	_, ok := tb.Admit(buildName("a"), false, time.Second, 1, 100, now)
	require.False(t, ok)

	faces := tb.Satisfy(buildName("a", "b"), now, func() [32]byte { return [32]byte{} })
	require.Empty(t, faces)
}
