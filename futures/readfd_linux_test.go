//go:build linux

package futures_test

import (
	"io"
	"testing"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/executor"
	"github.com/momentics/hioload-rt/fake"
	"github.com/momentics/hioload-rt/futures"
	"github.com/momentics/hioload-rt/reactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newPipe(t *testing.T) (rfd, wfd int) {
	t.Helper()
	var p [2]int
	require.NoError(t, unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC))
	t.Cleanup(func() {
		_ = unix.Close(p[0])
		_ = unix.Close(p[1])
	})
	return p[0], p[1]
}

func newRuntime(t *testing.T, opts ...executor.Option) (*reactor.EpollReactor, *executor.Executor) {
	t.Helper()
	r, err := reactor.NewEpollReactor()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	e, err := executor.New(r, opts...)
	require.NoError(t, err)
	return r, e
}

func TestReadFD_PipeWrittenWhileWaiting(t *testing.T) {
	r, e := newRuntime(t)
	rfd, wfd := newPipe(t)

	writer := futures.Lazy(func() any {
		_, err := unix.Write(wfd, []byte{'7'})
		return err
	})
	out, err := e.RunOne(futures.Then(writer, func(v any) api.Future {
		require.Nil(t, v)
		return futures.ReadFD(r, rfd, 2)
	}))
	require.NoError(t, err)

	res := out.(api.Result[[]byte])
	require.NoError(t, res.Err)
	assert.Equal(t, []byte{'7'}, res.Value)
	assert.Equal(t, uint64(1), e.Stats().Waits)
	assert.Zero(t, r.Len())
}

func TestReadFD_TwoPipesOneReady(t *testing.T) {
	rfd1, wfd1 := newPipe(t)
	rfd2, wfd2 := newPipe(t)
	var outs []any
	r, e := newRuntime(t, executor.WithOnComplete(func(_ uint64, out any) {
		outs = append(outs, out)
		if len(outs) == 1 {
			// the second reader becomes readable only after the first completed
			_, err := unix.Write(wfd2, []byte("b"))
			assert.NoError(t, err)
		}
	}))

	_, err := unix.Write(wfd1, []byte("a"))
	require.NoError(t, err)

	require.NoError(t, e.Run(futures.ReadFD(r, rfd1, 1), futures.ReadFD(r, rfd2, 1)))

	require.Len(t, outs, 2)
	assert.Equal(t, []byte("a"), outs[0].(api.Result[[]byte]).Value)
	assert.Equal(t, []byte("b"), outs[1].(api.Result[[]byte]).Value)
	assert.Equal(t, uint64(2), e.Stats().Waits)
}

func TestReadFD_EOF(t *testing.T) {
	r, e := newRuntime(t)
	var p [2]int
	require.NoError(t, unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC))
	t.Cleanup(func() { _ = unix.Close(p[0]) })
	require.NoError(t, unix.Close(p[1]))

	out, err := e.RunOne(futures.ReadFD(r, p[0], 4))
	require.NoError(t, err)
	assert.ErrorIs(t, out.(api.Result[[]byte]).Err, io.EOF)
}

func TestReadFD_RegisterFailure(t *testing.T) {
	r := fake.NewFakeReactor()
	require.NoError(t, r.Close())
	e, err := executor.New(r)
	require.NoError(t, err)

	out, err := e.RunOne(futures.ReadFD(r, 0, 1))
	require.NoError(t, err)
	assert.ErrorIs(t, out.(api.Result[[]byte]).Err, api.ErrReactorClosed)
}

func TestReadFD_SpuriousWakeReregisters(t *testing.T) {
	r := fake.NewFakeReactor()
	rfd, wfd := newPipe(t)
	e, err := executor.New(r)
	require.NoError(t, err)

	// first wake: the fake says readable but the pipe is empty
	r.OnWait = func(r *fake.FakeReactor) {
		r.SetReadable(rfd, true)
		if r.Waits() == 2 {
			_, werr := unix.Write(wfd, []byte("z"))
			assert.NoError(t, werr)
		}
	}

	out, err := e.RunOne(futures.ReadFD(r, rfd, 1))
	require.NoError(t, err)
	assert.Equal(t, []byte("z"), out.(api.Result[[]byte]).Value)
	assert.Equal(t, 2, r.Waits())
}

func TestReadFD_FatalRegisterFailureAbortsRun(t *testing.T) {
	r := fake.NewFakeReactor()
	r.SetRegisterError(api.NewError(api.ErrCodeInternal, "reactor: epoll_ctl add").WithCause(unix.EPERM))
	e, err := executor.New(r)
	require.NoError(t, err)

	out, err := e.RunOne(futures.ReadFD(r, 0, 1))
	assert.Nil(t, out)
	assert.True(t, api.IsFatal(err))
	assert.ErrorIs(t, err, unix.EPERM)
}
