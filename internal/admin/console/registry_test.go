package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistryReusesAndEvicts(t *testing.T) {
	t.Parallel()

	svc := newRecordingService(1)
	built := 0
	reg := NewRegistry(func() *Shell {
		built++
		return newTestShell(svc, nil)
	}, time.Minute)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	a := reg.Get("a")
	require.Same(t, a, reg.Get("a"))
	require.NotSame(t, a, reg.Get("b"))
	require.Equal(t, 2, reg.Len())
	require.Equal(t, 2, built)

	now = now.Add(30 * time.Second)
	reg.Get("a")
	now = now.Add(45 * time.Second)

	require.Same(t, a, reg.Get("a"), "recent use keeps the shell alive")
	require.Equal(t, 1, reg.Len(), "idle sessions are evicted")

	fresh := reg.Reset("a")
	require.NotSame(t, a, fresh)
	require.Same(t, fresh, reg.Get("a"))

	reg.Close()
	require.Zero(t, reg.Len())
}
