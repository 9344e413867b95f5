package worker

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/weatherfx/effect"
	"github.com/lixenwraith/weatherfx/renderer"
)

// fakeCore records every call it receives
type fakeCore struct {
	mu        sync.Mutex
	opts      renderer.Options
	calls     []string
	destroyed int
	panicOn   string
}

func (f *fakeCore) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if call == f.panicOn {
		panic("fake failure in " + call)
	}
	f.calls = append(f.calls, call)
}

func (f *fakeCore) Start(tag effect.Tag, opacity float64, _ effect.Extras) {
	f.record(fmt.Sprintf("start:%s:%g", tag, opacity))
}
func (f *fakeCore) Stop()                { f.record("stop") }
func (f *fakeCore) SetOpacity(v float64) { f.record(fmt.Sprintf("opacity:%g", v)) }
func (f *fakeCore) SetSnowSurfaces(s []effect.SnowSurface) {
	f.record(fmt.Sprintf("surfaces:%d", len(s)))
}
func (f *fakeCore) Resize(w, h int, _ float64, _ bool) { f.record(fmt.Sprintf("resize:%dx%d", w, h)) }
func (f *fakeCore) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed++
}

func (f *fakeCore) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCore) destroyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroyed
}

func factoryFor(core *fakeCore) CoreFactory {
	return func(opts renderer.Options) (Core, error) {
		core.opts = opts
		return core, nil
	}
}

func next(t *testing.T, w *Worker) Response {
	t.Helper()
	select {
	case r, ok := <-w.Responses():
		require.True(t, ok, "responses closed")
		return r
	case <-time.After(time.Second):
		t.Fatal("no response")
		return nil
	}
}

func TestInitReportsReadyAndForwardsInOrder(t *testing.T) {
	core := &fakeCore{}
	w := Spawn(Options{Factory: factoryFor(core)})
	defer w.Terminate()

	require.NoError(t, w.Post(Init{Width: 800, Height: 600, PixelRatio: 1}))
	for i := range 50 {
		require.NoError(t, w.Post(SetOpacity{Value: float64(i)}))
	}
	require.NoError(t, w.Post(Start{Effect: effect.Snow, Opacity: 70}))
	require.NoError(t, w.Post(Resize{Width: 1024, Height: 768}))
	require.NoError(t, w.Post(SetSnowSurfaces{Surfaces: make([]effect.SnowSurface, 2)}))
	require.NoError(t, w.Post(Stop{}))

	assert.Equal(t, Ready{}, next(t, w))

	want := make([]string, 0, 54)
	for i := range 50 {
		want = append(want, fmt.Sprintf("opacity:%d", i))
	}
	want = append(want, "start:snow:70", "resize:1024x768", "surfaces:2", "stop")
	require.Eventually(t, func() bool { return len(core.snapshot()) == len(want) }, time.Second, time.Millisecond)
	assert.Equal(t, want, core.snapshot())
	assert.Equal(t, 800, core.opts.Width)
}

func TestMessagesBeforeInitAreDropped(t *testing.T) {
	core := &fakeCore{}
	w := Spawn(Options{Factory: factoryFor(core)})
	defer w.Terminate()

	require.NoError(t, w.Post(Start{Effect: effect.Rain}))
	require.NoError(t, w.Post(Init{}))
	require.NoError(t, w.Post(Stop{}))

	assert.Equal(t, Ready{}, next(t, w))
	require.Eventually(t, func() bool { return len(core.snapshot()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"stop"}, core.snapshot())
}

func TestInitFailureReportsError(t *testing.T) {
	w := Spawn(Options{Factory: func(renderer.Options) (Core, error) {
		return nil, errors.New("no gpu")
	}})
	defer w.Terminate()

	require.NoError(t, w.Post(Init{}))
	r := next(t, w)
	require.IsType(t, Error{}, r)
	assert.Contains(t, r.(Error).Message, "no gpu")
}

func TestInitWithoutSurfaceUsesRendererError(t *testing.T) {
	w := Spawn(Options{})
	defer w.Terminate()

	require.NoError(t, w.Post(Init{Width: 100, Height: 100}))
	r := next(t, w)
	require.IsType(t, Error{}, r)
	assert.Contains(t, r.(Error).Message, renderer.ErrNoSurface.Error())
}

func TestDoubleInitIsAnError(t *testing.T) {
	core := &fakeCore{}
	w := Spawn(Options{Factory: factoryFor(core)})
	defer w.Terminate()

	require.NoError(t, w.Post(Init{}))
	require.NoError(t, w.Post(Init{}))
	assert.Equal(t, Ready{}, next(t, w))
	assert.IsType(t, Error{}, next(t, w))
}

func TestRuntimePanicBecomesErrorAndWorkerSurvives(t *testing.T) {
	core := &fakeCore{panicOn: "stop"}
	w := Spawn(Options{Factory: factoryFor(core)})
	defer w.Terminate()

	require.NoError(t, w.Post(Init{}))
	require.NoError(t, w.Post(Stop{}))
	require.NoError(t, w.Post(SetOpacity{Value: 5}))

	assert.Equal(t, Ready{}, next(t, w))
	r := next(t, w)
	require.IsType(t, Error{}, r)
	assert.Contains(t, r.(Error).Message, "STOP")
	require.Eventually(t, func() bool { return len(core.snapshot()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"opacity:5"}, core.snapshot())
}

func TestRendererCallbacksBecomeResponses(t *testing.T) {
	core := &fakeCore{}
	w := Spawn(Options{Factory: factoryFor(core)})
	defer w.Terminate()

	require.NoError(t, w.Post(Init{}))
	assert.Equal(t, Ready{}, next(t, w))

	core.opts.OnStrike(effect.Strike{Intensity: 0.8})
	core.opts.OnError(errors.New("present failed"))
	assert.Equal(t, Strike{Intensity: 0.8}, next(t, w))
	assert.Equal(t, Error{Message: "present failed"}, next(t, w))
}

func TestDisposeDestroysRenderer(t *testing.T) {
	core := &fakeCore{}
	w := Spawn(Options{Factory: factoryFor(core)})
	defer w.Terminate()

	require.NoError(t, w.Post(Init{}))
	require.NoError(t, w.Post(Dispose{}))
	require.NoError(t, w.Post(Start{Effect: effect.Rain}))
	assert.Equal(t, Ready{}, next(t, w))

	require.Eventually(t, func() bool { return core.destroyCount() == 1 }, time.Second, time.Millisecond)
	assert.Empty(t, core.snapshot())
}

func TestTerminate(t *testing.T) {
	core := &fakeCore{}
	w := Spawn(Options{Factory: factoryFor(core)})
	require.NoError(t, w.Post(Init{}))
	assert.Equal(t, Ready{}, next(t, w))

	w.Terminate()
	w.Terminate()

	assert.ErrorIs(t, w.Post(Stop{}), ErrClosed)
	assert.Equal(t, 1, core.destroyCount())
	assert.Zero(t, w.Pending())

	_, ok := <-w.Responses()
	assert.False(t, ok, "responses closed after terminate")
}

func TestTerminateBeforeInit(t *testing.T) {
	w := Spawn(Options{})
	w.Terminate()
	assert.ErrorIs(t, w.Post(Init{}), ErrClosed)
}

func TestMailboxOrderAndClose(t *testing.T) {
	m := newMailbox[int]()
	for i := range 5 {
		assert.True(t, m.push(i))
	}
	assert.Equal(t, 5, m.len())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, m.take())
	assert.Empty(t, m.take())

	m.push(9)
	m.close()
	assert.False(t, m.push(10))
	assert.Empty(t, m.take())
}
