package filelock

import (
	"os"
	"strconv"
	"time"
)

// HeartbeatPath returns the liveness file path for a lock file: a sibling
// with a ".poll" suffix. Only the file's modification time is load-bearing;
// the counter content exists for debuggability.
func HeartbeatPath(lockPath string) string {
	return lockPath + ".poll"
}

// heartbeat periodically rewrites the liveness file while a lock is held, so
// that waiters have a time-bounded signal of the holder's liveness that is
// independent of the OS lock state.
//
// The loop runs on its own goroutine so a busy or blocked lock holder cannot
// starve the signal other processes depend on. Cancellation is cooperative:
// the loop re-checks the done channel each tick and exits within one tick
// period of stop being called.
type heartbeat struct {
	path     string
	interval time.Duration
	done     chan struct{}
	finished chan struct{}
}

// startHeartbeat begins refreshing path every interval.
func startHeartbeat(path string, interval time.Duration) *heartbeat {
	h := &heartbeat{
		path:     path,
		interval: interval,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *heartbeat) run() {
	defer close(h.finished)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var count uint64
	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
		}
		count++
		// failures are ignored; a missed beat just ages the file
		_ = os.WriteFile(h.path, []byte(strconv.FormatUint(count, 10)), 0644)
	}
}

// stop cancels the heartbeat and waits for the loop to exit. It returns
// within one tick period. Safe to call only once; the owning Flag guards
// this with its release once.
func (h *heartbeat) stop() {
	close(h.done)
	<-h.finished
}
