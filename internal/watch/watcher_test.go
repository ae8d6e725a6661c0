package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"prebuild/internal/directive"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatcher_RebuildsOnTrackedWrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "windows.cc")
	writeFile(t, src, "int x;")

	var builds atomic.Int32
	rebuilt := make(chan struct{}, 4)
	build := func(context.Context) ([]directive.Directive, error) {
		if builds.Add(1) > 1 {
			select {
			case rebuilt <- struct{}{}:
			default:
			}
		}
		return []directive.Directive{directive.RerunIfChanged(src), directive.LinkLib("WtsApi32")}, nil
	}

	w, err := New(build, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return w.Tracked() == 1 }, 5*time.Second, 10*time.Millisecond)

	writeFile(t, src, "int y;")

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after tracked file write")
	}

	cancel()
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, w.Stats().Builds, 2)
}

func TestWatcher_IgnoresUntrackedFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "macos.mm")
	writeFile(t, src, "")

	var builds atomic.Int32
	build := func(context.Context) ([]directive.Directive, error) {
		builds.Add(1)
		return []directive.Directive{directive.RerunIfChanged(src)}, nil
	}

	w, err := New(build, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return w.Tracked() == 1 }, 5*time.Second, 10*time.Millisecond)
	writeFile(t, filepath.Join(dir, "notes.txt"), "unrelated")
	time.Sleep(200 * time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), builds.Load())
}

func TestWatcher_InitialBuildFailure(t *testing.T) {
	boom := errors.New("configuration error")
	w, err := New(func(context.Context) ([]directive.Directive, error) { return nil, boom }, time.Millisecond)
	require.NoError(t, err)

	err = w.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, w.Stats().FailedBuilds)
}

func TestWatcher_RebuildFailureReported(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "shim.cc")
	writeFile(t, src, "")

	var builds atomic.Int32
	build := func(context.Context) ([]directive.Directive, error) {
		if builds.Add(1) > 1 {
			return nil, errors.New("compile failed")
		}
		return []directive.Directive{directive.RerunIfChanged(src)}, nil
	}

	w, err := New(build, 10*time.Millisecond)
	require.NoError(t, err)
	failures := make(chan error, 4)
	w.OnError = func(err error) { failures <- err }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return w.Tracked() == 1 }, 5*time.Second, 10*time.Millisecond)
	writeFile(t, src, "broken")

	select {
	case err := <-failures:
		assert.EqualError(t, err, "compile failed")
	case <-time.After(5 * time.Second):
		t.Fatal("rebuild failure not reported")
	}
	assert.Equal(t, 1, w.Tracked(), "previous trigger set stays active")

	cancel()
	require.NoError(t, <-done)
}
