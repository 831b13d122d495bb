package ledger_test

import (
	"testing"
	"time"

	"github.com/go-phorce/ostiarius/gatekeeper"
	"github.com/go-phorce/ostiarius/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAndGet(t *testing.T) {
	l := ledger.New()
	auth := gatekeeper.Authorization{ID: "a1", Name: "Client 1", Command: "date", Timestamp: time.Now().UTC()}

	l.Store(auth)

	got, ok := l.Get("a1")
	require.True(t, ok)
	assert.Equal(t, auth, got)

	_, ok = l.Get("missing")
	assert.False(t, ok)
}

func TestStoreOverwriteKeepsOrderSlotOnce(t *testing.T) {
	l := ledger.New()
	now := time.Now().UTC()

	l.Store(gatekeeper.Authorization{ID: "a1", Command: "date", Timestamp: now})
	l.Store(gatekeeper.Authorization{ID: "a1", Command: "uptime", Timestamp: now})

	all := l.List(0, 0)
	require.Len(t, all, 1)
	assert.Equal(t, "uptime", all[0].Command)
}

func TestListOrdering(t *testing.T) {
	l := ledger.New()
	base := time.Now().UTC()

	l.Store(gatekeeper.Authorization{ID: "a1", Timestamp: base.Add(2 * time.Second)})
	l.Store(gatekeeper.Authorization{ID: "a2", Timestamp: base})
	l.Store(gatekeeper.Authorization{ID: "a3", Timestamp: base.Add(time.Second)})

	all := l.List(0, 0)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a2", "a3", "a1"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestListPaging(t *testing.T) {
	l := ledger.New()
	for i := 0; i < 5; i++ {
		l.Store(gatekeeper.Authorization{ID: string(rune('a' + i)), Timestamp: time.Now().UTC()})
	}

	page := l.List(1, 2)
	require.Len(t, page, 2)

	assert.Empty(t, l.List(10, 2))
	assert.Len(t, l.List(3, 0), 2)
}
