//go:build linux

package facade_test

import (
	"bytes"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/executor"
	"github.com/momentics/hioload-rt/facade"
	"github.com/momentics/hioload-rt/futures"
	"github.com/momentics/hioload-rt/reactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestRuntime_FullLifecycle(t *testing.T) {
	var logs bytes.Buffer
	cfg := facade.DefaultConfig()
	cfg.Name = "lifecycle"
	cfg.LogOutput = &logs
	cfg.LogLevel = logiface.LevelInformational

	var completed []uint64
	rt, err := facade.New(cfg, executor.WithOnComplete(func(id uint64, _ any) {
		completed = append(completed, id)
	}))
	require.NoError(t, err)

	var p [2]int
	require.NoError(t, unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC))
	defer unix.Close(p[0])
	defer unix.Close(p[1])

	state := rt.DumpState()
	assert.Equal(t, "epoll", state["platform.backend"])
	assert.Equal(t, rt.Executor().ID(), state["executor.id"])

	reader := futures.ReadFD(rt.Reactor(), p[0], 8)
	writer := futures.Then(futures.Yield(), func(any) api.Future {
		return futures.Lazy(func() any {
			assert.Equal(t, 1, rt.DumpState()["reactor.registrations"])
			_, err := unix.Write(p[1], []byte("hi"))
			return err
		})
	})
	require.NoError(t, rt.Run(reader, writer))
	assert.Equal(t, []uint64{2, 1}, completed)

	snap := rt.Metrics().GetSnapshot()
	assert.Equal(t, int64(1), snap[reactor.MetricFired])
	assert.Equal(t, int64(1), snap[executor.MetricWaits])
	assert.Equal(t, 0, snap[reactor.MetricRegistrations])
	assert.Contains(t, logs.String(), `"name":"lifecycle"`)

	require.NoError(t, rt.Shutdown())
	require.NoError(t, rt.Close())
	assert.ErrorIs(t, rt.Run(futures.Ready(nil)), api.ErrReactorClosed)
}

func TestRuntime_RunOne(t *testing.T) {
	cfg := facade.DefaultConfig()
	cfg.LogOutput = nil
	cfg.EnableMetrics = false
	cfg.EnableDebug = false
	rt, err := facade.New(cfg)
	require.NoError(t, err)
	defer rt.Close()

	out, err := rt.RunOne(futures.Map(futures.Ready(3), func(v any) any { return v.(int) + 32 }))
	require.NoError(t, err)
	assert.Equal(t, 35, out)
	assert.Nil(t, rt.Metrics())
	assert.Nil(t, rt.Logger())
	assert.Empty(t, rt.DumpState())
}

func TestRuntime_NilConfig(t *testing.T) {
	rt, err := facade.New(nil)
	require.NoError(t, err)
	defer rt.Close()
	require.NoError(t, rt.AddFuture(futures.Ready(1)))
	require.NoError(t, rt.Run())
	assert.Equal(t, uint64(1), rt.Executor().Stats().Completed)
}
