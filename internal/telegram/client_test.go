// File path: internal/telegram/client_test.go
package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseChannelID(t *testing.T) {
	t.Parallel()

	id, ok := parseChannelID("-1003674153946")
	require.True(t, ok)
	require.EqualValues(t, 3674153946, id)

	id, ok = parseChannelID("3674153946")
	require.True(t, ok)
	require.EqualValues(t, 3674153946, id)

	_, ok = parseChannelID("@famgroup")
	require.False(t, ok)

	_, ok = parseChannelID("")
	require.False(t, ok)
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	cfg.applyDefaults()
	require.Equal(t, DefaultChat, cfg.Chat)
	require.Equal(t, 30*time.Second, cfg.LookupTimeout)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Config{}.Validate())
	require.Error(t, Config{APIID: 12345}.Validate())
	require.NoError(t, Config{APIID: 12345, APIHash: "hash"}.Validate())
}

func TestNewRequiresSession(t *testing.T) {
	t.Parallel()

	_, err := New(Config{APIID: 12345, APIHash: "hash"})
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestDeliverWithoutWaiterDropsMessage(t *testing.T) {
	t.Parallel()

	c := &Client{}
	c.deliver("FAM ID : u1")

	wait := make(chan string, 1)
	c.mu.Lock()
	c.waiter = wait
	c.mu.Unlock()
	c.deliver("FAM ID : u2")
	c.deliver("FAM ID : u3")

	require.Equal(t, "FAM ID : u2", <-wait)
	select {
	case extra := <-wait:
		t.Fatalf("unexpected second delivery: %q", extra)
	default:
	}
}
