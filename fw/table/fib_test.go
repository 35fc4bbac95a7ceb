package table_test

import (
	"testing"
	"time"

	"github.com/ndn-go/forwarder/fw/table"
	"github.com/ndn-go/forwarder/std/encoding"
	"github.com/stretchr/testify/require"
)

func buildName(comps ...string) encoding.Name {
	n := encoding.EmptyName
	cs := make([]encoding.Component, len(comps))
	for i, c := range comps {
		cs[i] = encoding.NewGenericComponent(c)
	}
	return n.Adding(cs...)
}

func TestRegisterRoutePicksHighestPriorityCandidate(t *testing.T) {
	tb := table.NewTables()
	tb.RegisterRoute(buildName("a"), 1, 10)
	tb.RegisterRoute(buildName("a"), 2, 5)
	tb.RegisterRoute(buildName("a", "b"), 3, 20)

	face, ok := tb.Admit(buildName("a", "b"), false, time.Second, 0xaa, 100, time.Unix(0, 0))
	require.True(t, ok)
	// Deepest node (/a/b) beats /a's entries regardless of its own cost.
	require.Equal(t, uint64(3), face)
}

func TestRegisterRouteUpdatesCost(t *testing.T) {
	tb := table.NewTables()
	tb.RegisterRoute(buildName("a"), 1, 10)
	tb.RegisterRoute(buildName("a"), 2, 1)
	tb.RegisterRoute(buildName("a"), 1, 0) // face 1 becomes cheapest

	face, ok := tb.Admit(buildName("a"), false, time.Second, 1, 100, time.Unix(0, 0))
	require.True(t, ok)
	require.Equal(t, uint64(1), face)
}

func TestUnregisterRoute(t *testing.T) {
	tb := table.NewTables()
	tb.RegisterRoute(buildName("a"), 1, 10)

	require.True(t, tb.UnregisterRoute(buildName("a"), 1))
	require.False(t, tb.UnregisterRoute(buildName("a"), 1))

	_, ok := tb.Admit(buildName("a"), false, time.Second, 1, 100, time.Unix(0, 0))
	require.False(t, ok)
}

func TestUnregisterFaceGlobally(t *testing.T) {
	tb := table.NewTables()
	tb.RegisterRoute(buildName("a"), 1, 10)
	tb.RegisterRoute(buildName("b"), 1, 10)
	tb.RegisterRoute(buildName("b"), 2, 20)

	tb.UnregisterFace(1)

	_, ok := tb.Admit(buildName("a"), false, time.Second, 1, 100, time.Unix(0, 0))
	require.False(t, ok)

	face, ok := tb.Admit(buildName("b"), false, time.Second, 2, 100, time.Unix(0, 0))
	require.True(t, ok)
	require.Equal(t, uint64(2), face)
}
