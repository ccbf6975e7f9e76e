package kurakot

import (
	"container/heap"
	"time"
)

// task is one unit of deferred work on the game's own clock.
type task struct {
	due time.Duration
	seq int
	fn  func()
}

type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	// same instant runs in issue order
	return h[i].seq < h[j].seq
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x interface{}) {
	*h = append(*h, x.(*task))
}

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// scheduler runs tasks on simulated time. Nothing happens unless the
// owner calls advance, so everything in the game stays on the caller's
// goroutine, and tests can drive time exactly.
type scheduler struct {
	now    time.Duration
	seq    int
	tasks  taskHeap
	halted bool
}

func newScheduler() *scheduler {
	s := &scheduler{}
	heap.Init(&s.tasks)
	return s
}

// after queues fn to run d from now.
func (s *scheduler) after(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	s.seq++
	heap.Push(&s.tasks, &task{due: s.now + d, seq: s.seq, fn: fn})
}

// advance moves the clock forward, running everything that falls due,
// in (due, issue) order. Tasks may queue more tasks; those run in the
// same advance if they fall within it. Once halted, only tasks due at
// the instant of the halt still run.
func (s *scheduler) advance(d time.Duration) {
	target := s.now + d
	for len(s.tasks) > 0 {
		t := s.tasks[0]
		if t.due > target {
			break
		}
		if s.halted && t.due > s.now {
			break
		}
		heap.Pop(&s.tasks)
		s.now = t.due
		t.fn()
	}
	if !s.halted {
		s.now = target
	}
}

// halt freezes the clock. Tasks already due complete; nothing later
// ever runs.
func (s *scheduler) halt() {
	s.halted = true
}

func (s *scheduler) pending() int {
	return len(s.tasks)
}

// joinCounter fires done exactly once, after n sub-tasks have each
// reported in. n=0 fires immediately.
type joinCounter struct {
	n     int
	done  func()
	fired bool
}

func newJoin(n int, done func()) *joinCounter {
	j := &joinCounter{n: n, done: done}
	if n <= 0 {
		j.fire()
	}
	return j
}

func (j *joinCounter) one() {
	j.n--
	if j.n <= 0 {
		j.fire()
	}
}

func (j *joinCounter) fire() {
	if j.fired {
		return
	}
	j.fired = true
	if j.done != nil {
		j.done()
	}
}
