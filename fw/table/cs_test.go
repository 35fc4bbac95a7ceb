package table_test

import (
	"testing"
	"time"

	"github.com/ndn-go/forwarder/fw/table"
	"github.com/stretchr/testify/require"
)

func TestCSInsertAndGetExact(t *testing.T) {
	tb := table.NewTables()
	now := time.Unix(0, 0)
	var digest [32]byte
	digest[0] = 0x01

	tb.InsertCS(buildName("a", "b"), digest, []byte("hello"), now, time.Second, time.Minute)

	data, ok := tb.GetCS(buildName("a", "b"), false, false, now, time.Minute)
	require.True(t, ok)
	require.Equal(t, []byte("hello"), data)
}

func TestCSMustBeFreshRejectsStaleEntry(t *testing.T) {
	tb := table.NewTables()
	now := time.Unix(0, 0)
	var digest [32]byte

	tb.InsertCS(buildName("a"), digest, []byte("x"), now, time.Millisecond, time.Minute)

	_, ok := tb.GetCS(buildName("a"), false, true, now.Add(time.Second), time.Minute)
	require.False(t, ok)

	// Without must-be-fresh the same stale entry is still servable.
	data, ok := tb.GetCS(buildName("a"), false, false, now.Add(time.Second), time.Minute)
	require.True(t, ok)
	require.Equal(t, []byte("x"), data)
}

func TestCSCanBePrefixRecursesIntoChildren(t *testing.T) {
	tb := table.NewTables()
	now := time.Unix(0, 0)
	var digest [32]byte

	tb.InsertCS(buildName("a", "b"), digest, []byte("child"), now, time.Second, time.Minute)

	data, ok := tb.GetCS(buildName("a"), true, false, now, time.Minute)
	require.True(t, ok)
	require.Equal(t, []byte("child"), data)
}

func TestCSExactQueryConsidersDigestSuffixedChildren(t *testing.T) {
	tb := table.NewTables()
	now := time.Unix(0, 0)
	var digest [32]byte
	digest[0] = 0xab

	tb.InsertCS(buildName("a"), digest, []byte("only-version"), now, time.Second, time.Minute)

	// Querying /a without can-be-prefix still finds the digest child
	// directly beneath it.
	data, ok := tb.GetCS(buildName("a"), false, false, now, time.Minute)
	require.True(t, ok)
	require.Equal(t, []byte("only-version"), data)
}

func TestCSInsertExtendsFreshnessOnIdenticalBytes(t *testing.T) {
	tb := table.NewTables()
	now := time.Unix(0, 0)
	var digest [32]byte

	tb.InsertCS(buildName("a"), digest, []byte("same"), now, time.Second, time.Minute)
	tb.InsertCS(buildName("a"), digest, []byte("same"), now.Add(time.Millisecond), 10*time.Second, time.Minute)

	data, ok := tb.GetCS(buildName("a"), false, true, now.Add(2*time.Second), time.Minute)
	require.True(t, ok)
	require.Equal(t, []byte("same"), data)
}
