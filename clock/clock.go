// Package clock implements the abstract simulation clock the logistics
// simulator runs its vehicle shifts on: a monotonic simulated-time value and
// a single suspension primitive, "sleep until t minutes have elapsed". It is
// a cooperative, single-threaded scheduler — at most one process executes at
// a time, woken in order of simulated time and, for ties, in the order the
// processes were spawned.
//
// The scheduler is realised as a stackful task per process (one goroutine,
// parked on a channel between suspension points) driven by a
// container/heap priority queue of wake-up times, the same structure used
// to drive discrete-event simulations of concurrent vehicle movement.
package clock

import "container/heap"

// Process is a unit of cooperative work. It receives a handle used to
// suspend itself; the clock never preempts it between suspension points.
type Process func(p *Proc)

// Proc is the handle a running Process uses to yield control back to the
// clock.
type Proc struct {
	c  *Clock
	id int // spawn index; breaks ties between equal wake-up times
}

// Sleep suspends the calling process until the clock has advanced by the
// given number of simulated minutes. Minutes must be non-negative; zero is
// a valid no-op suspension used to yield a turn without advancing time.
func (p *Proc) Sleep(minutes float64) {
	resume := make(chan struct{})
	p.c.sleepc <- sleepRequest{minutes: minutes, id: p.id, resume: resume}
	<-resume
}

// Now returns the clock's current simulated time, in minutes.
func (p *Proc) Now() float64 {
	return p.c.now
}

type sleepRequest struct {
	minutes float64
	id      int
	resume  chan struct{}
}

// wakeup is one entry of the scheduler's priority queue: the process with
// spawn index id, parked until simulated time reaches at.
type wakeup struct {
	at     float64
	id     int
	resume chan struct{}
}

type wakeupQueue []*wakeup

func (q wakeupQueue) Len() int { return len(q) }
func (q wakeupQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].id < q[j].id
}
func (q wakeupQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *wakeupQueue) Push(x any)   { *q = append(*q, x.(*wakeup)) }
func (q *wakeupQueue) Pop() any {
	old := *q
	n := len(old)
	v := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return v
}

// Clock drives a set of cooperative processes sharing one simulated
// timeline. A Clock is single-use: spawn all processes for the session,
// then call Run once to drain them.
type Clock struct {
	now    float64
	queue  wakeupQueue
	seq    int
	live   int
	sleepc chan sleepRequest
	donec  chan struct{}
}

// New creates a clock starting at the given simulated time.
func New(start float64) *Clock {
	return &Clock{
		now:    start,
		sleepc: make(chan sleepRequest),
		donec:  make(chan struct{}),
	}
}

// Now returns the clock's current simulated time, in minutes.
func (c *Clock) Now() float64 { return c.now }

// Spawn registers a process to begin running when Run is called. Processes
// spawned earlier are woken before processes spawned later whenever they
// are scheduled to wake at the same simulated time — this is what gives
// day-major, vehicle-minor determinism to same-time events.
func (c *Clock) Spawn(fn Process) {
	resume := make(chan struct{})
	id := c.seq
	heap.Push(&c.queue, &wakeup{at: c.now, id: id, resume: resume})
	c.seq++
	c.live++
	go func() {
		<-resume
		fn(&Proc{c: c, id: id})
		c.donec <- struct{}{}
	}()
}

// Run dispatches every spawned process to completion, advancing Now as it
// goes. It returns once every spawned process has returned.
func (c *Clock) Run() {
	for c.live > 0 {
		w := heap.Pop(&c.queue).(*wakeup)
		c.now = w.at
		close(w.resume)
		select {
		case req := <-c.sleepc:
			heap.Push(&c.queue, &wakeup{at: c.now + req.minutes, id: req.id, resume: req.resume})
		case <-c.donec:
			c.live--
		}
	}
}

// Advance forces Now forward to at least t. It must only be called while
// Run is not in progress (e.g. to account for a day boundary after Run has
// returned for all of that day's processes); it never rewinds the clock.
func (c *Clock) Advance(t float64) {
	if t > c.now {
		c.now = t
	}
}
