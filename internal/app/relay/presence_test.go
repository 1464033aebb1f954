package relay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresenceRegisterAndLookup(t *testing.T) {
	req := require.New(t)

	p := NewPresence()

	_, ok := p.Lookup("user-a")
	req.False(ok, "lookup on empty directory should miss")

	p.Register("user-a", "conn-1")

	connID, ok := p.Lookup("user-a")
	req.True(ok)
	req.Equal("conn-1", connID)
	req.Equal(1, p.OnlineCount())
}

func TestPresenceRegisterOverwritesExistingEntry(t *testing.T) {
	req := require.New(t)

	p := NewPresence()
	p.Register("user-a", "conn-1")
	p.Register("user-a", "conn-2")

	connID, ok := p.Lookup("user-a")
	req.True(ok)
	req.Equal("conn-2", connID, "newer connection wins")
	req.Equal(1, p.OnlineCount(), "one entry per user")
}

func TestPresenceRemove(t *testing.T) {
	tests := []struct {
		name        string
		userID      string
		connID      string
		wantRemoved bool
		wantOnline  int
	}{
		{
			name:        "matching entry is removed",
			userID:      "user-a",
			connID:      "conn-1",
			wantRemoved: true,
			wantOnline:  0,
		},
		{
			name:        "mismatched conn id leaves entry intact",
			userID:      "user-a",
			connID:      "conn-stale",
			wantRemoved: false,
			wantOnline:  1,
		},
		{
			name:        "unknown user is a no-op",
			userID:      "user-z",
			connID:      "conn-1",
			wantRemoved: false,
			wantOnline:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			p := NewPresence()
			p.Register("user-a", "conn-1")

			req.Equal(tt.wantRemoved, p.Remove(tt.userID, tt.connID))
			req.Equal(tt.wantOnline, p.OnlineCount())
		})
	}
}

// A superseded connection disconnecting late must not evict the entry of the
// connection that replaced it.
func TestPresenceStaleDisconnectKeepsNewEntry(t *testing.T) {
	req := require.New(t)

	p := NewPresence()
	p.Register("user-a", "conn-old")
	p.Register("user-a", "conn-new")

	req.False(p.Remove("user-a", "conn-old"))

	connID, ok := p.Lookup("user-a")
	req.True(ok)
	req.Equal("conn-new", connID)
}

func TestPresenceConcurrentAccess(t *testing.T) {
	req := require.New(t)

	p := NewPresence()

	const users = 50
	var wg sync.WaitGroup

	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			userID := fmt.Sprintf("user-%d", i)
			connID := fmt.Sprintf("conn-%d", i)

			p.Register(userID, connID)
			got, ok := p.Lookup(userID)
			if ok && got == connID {
				p.Remove(userID, connID)
			}
		}(i)
	}

	wg.Wait()
	req.Equal(0, p.OnlineCount())
}
