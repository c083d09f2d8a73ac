package marker

// Scheduler defers work until the current synchronous work is done. A task
// passed to Schedule runs exactly once, after the caller returns and before
// the host processes its next externally observable event.
type Scheduler interface {
	Schedule(fn func())
}

// Queue is a microtask-style Scheduler. Tasks accumulate until Flush is
// called by the host loop; Flush also runs tasks scheduled while flushing.
// A Queue is meant to be used from a single goroutine.
type Queue struct {
	tasks    []func()
	flushing bool
}

// DefaultQueue is the scheduler used when no scheduler is configured.
// Hosts drive it by calling DefaultQueue.Flush once per frame or event.
var DefaultQueue = &Queue{}

// Schedule appends fn to the queue.
func (q *Queue) Schedule(fn func()) {
	q.tasks = append(q.tasks, fn)
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Flush runs pending tasks in FIFO order until the queue is empty and returns
// the number of tasks run. A nested call from inside a task is a no-op; the
// outer Flush picks up anything scheduled meanwhile.
//
// A panicking task propagates to the caller of Flush. The remaining tasks
// stay queued.
func (q *Queue) Flush() int {
	if q.flushing {
		return 0
	}
	q.flushing = true
	defer func() { q.flushing = false }()

	n := 0
	for len(q.tasks) > 0 {
		fn := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		n++
		fn()
	}
	q.tasks = q.tasks[:0]
	return n
}

// updateScheduler coalesces update requests of one marker within a tick.
type updateScheduler struct {
	scheduler Scheduler
	scheduled bool
	perform   func()
}

// request schedules perform unless a run is already pending. The pending run
// observes whatever state is current when it executes.
func (u *updateScheduler) request() {
	if u.scheduled {
		return
	}
	u.scheduled = true
	u.scheduler.Schedule(func() {
		u.scheduled = false
		u.perform()
	})
}

// pending reports whether an update is scheduled but has not run yet.
func (u *updateScheduler) pending() bool {
	return u.scheduled
}
