package vrwidget

import "sync"

// Executor runs fn and returns once it has completed.
type Executor interface {
	Do(fn func())
}

type inlineExecutor struct{}

func (inlineExecutor) Do(fn func()) { fn() }

// ResourceThread runs texture work on one dedicated goroutine so GPU
// resource calls never interleave with each other. Do blocks until the
// submitted function has finished, which turns Bind and Unbind into scoped
// acquire/release operations from the frame thread's point of view.
type ResourceThread struct {
	cmds      chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewResourceThread starts the resource goroutine.
func NewResourceThread() *ResourceThread {
	t := &ResourceThread{
		cmds: make(chan func()),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go t.loop()
	return t
}

func (t *ResourceThread) loop() {
	defer close(t.done)
	for {
		select {
		case fn := <-t.cmds:
			fn()
		case <-t.quit:
			return
		}
	}
}

// Do runs fn on the resource goroutine and waits for it. After Close, fn
// runs on the caller's goroutine.
func (t *ResourceThread) Do(fn func()) {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}
	select {
	case t.cmds <- wrapped:
		<-finished
	case <-t.quit:
		fn()
	}
}

// Close stops the goroutine after any in-flight function returns.
func (t *ResourceThread) Close() {
	t.closeOnce.Do(func() {
		close(t.quit)
	})
	<-t.done
}
