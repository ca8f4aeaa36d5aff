package filelock

import (
	"os"
	"sync"
	"time"

	"github.com/calder/fskit/internal/display"
	"github.com/calder/fskit/internal/logger"
)

// Tuning knobs for lax lock acquisition. The transient budget and staleness
// multiplier are heuristics inherited from field experience, not derived
// bounds; they are named here and overridable per Coordinator so callers can
// tune them without inferring a stronger liveness guarantee than the design
// provides.
const (
	// DefaultHeartbeatInterval is how often a holder refreshes the liveness file.
	DefaultHeartbeatInterval = 100 * time.Millisecond

	// DefaultRetryInterval is how long a waiter sleeps between lock attempts.
	DefaultRetryInterval = 20 * time.Millisecond

	// DefaultTransientBudget is how many consecutive heartbeat read failures
	// a waiter tolerates before proceeding without the lock.
	DefaultTransientBudget = 10

	// DefaultNoticeAfter is how long a waiter stays silent before surfacing
	// the long-wait notice.
	DefaultNoticeAfter = 1 * time.Second

	// StaleMultiplier scales the heartbeat interval into the staleness
	// threshold: a heartbeat older than StaleMultiplier ticks means the
	// holder is presumed dead.
	StaleMultiplier = 2
)

// DebugLogger is the narrow logging surface the coordinator needs.
type DebugLogger interface {
	Debugf(format string, args ...interface{})
}

// Coordinator acquires lax, heartbeat-monitored filesystem locks. The zero
// value uses the default intervals, no wait reporter, and no logging; any
// field may be overridden before use.
//
// A lax lock synchronizes cooperating processes so they go one after the
// other, but deliberately lets the caller proceed unlocked when exclusivity
// cannot be verified: a holder that dies without releasing its OS lock must
// not block waiters forever. Use it only to protect operations that already
// tolerate unsynchronized concurrent execution.
type Coordinator struct {
	// HeartbeatInterval is the liveness refresh period while holding the lock.
	HeartbeatInterval time.Duration

	// RetryInterval is the sleep between failed acquisition attempts.
	RetryInterval time.Duration

	// StaleAfter is the heartbeat age beyond which the holder is presumed
	// dead. Zero means StaleMultiplier times HeartbeatInterval.
	StaleAfter time.Duration

	// TransientBudget bounds consecutive heartbeat read failures.
	TransientBudget int

	// NoticeAfter is the quiet period before the long-wait notice. The
	// notice is surfaced at most once per acquisition.
	NoticeAfter time.Duration

	// Reporter receives the long-wait notice. Nil disables it.
	Reporter display.Reporter

	// Logger receives debug-level diagnostics. Nil disables them.
	Logger DebugLogger
}

// Acquire tries to take the exclusive lock at lockPath, waiting for a live
// competitor to finish. It never fails: the returned Flag is either locked,
// or unlocked because exclusivity could not be verified (the lock file is
// not openable, the competitor's heartbeat went stale, or heartbeat reads
// kept erroring). Callers must call Release on every exit path.
func (c *Coordinator) Acquire(lockPath, waitMessage string) *Flag {
	heartbeatInterval := c.HeartbeatInterval
	if heartbeatInterval <= 0 {
		heartbeatInterval = DefaultHeartbeatInterval
	}
	retryInterval := c.RetryInterval
	if retryInterval <= 0 {
		retryInterval = DefaultRetryInterval
	}
	staleAfter := c.StaleAfter
	if staleAfter <= 0 {
		staleAfter = StaleMultiplier * heartbeatInterval
	}
	budget := c.TransientBudget
	if budget <= 0 {
		budget = DefaultTransientBudget
	}
	noticeAfter := c.NoticeAfter
	if noticeAfter <= 0 {
		noticeAfter = DefaultNoticeAfter
	}

	c.debugf("acquiring file lock at %s", lockPath)
	lock := NewFileLock(lockPath)
	heartbeatPath := HeartbeatPath(lockPath)
	start := time.Now()
	noticed := false

	errorCount := 0
	for errorCount < budget {
		acquired, err := lock.TryLock()
		if err != nil {
			// Cannot even open or lock the file (e.g. permission denied).
			// Never block a caller over that; let it through unlocked.
			c.debugf("failed to open file lock at %s: %v", lockPath, err)
			return &Flag{}
		}

		if acquired {
			c.debugf("acquired file lock at %s", lockPath)
			_ = os.WriteFile(heartbeatPath, nil, 0644)
			return &Flag{inner: &flagInner{
				path:       lockPath,
				lock:       lock,
				hb:         startHeartbeat(heartbeatPath, heartbeatInterval),
				log:        c.Logger,
				acquiredAt: time.Now(),
			}}
		}

		// show a message if it's been a while
		if !noticed && c.Reporter != nil && time.Since(start) > noticeAfter {
			c.Reporter.Blocked(waitMessage)
			noticed = true
		}

		time.Sleep(retryInterval)

		// Check whether the competitor's heartbeat has stopped updating,
		// which indicates the lock is claimed but was never properly
		// released (killed holder, or the OS is slow to release it).
		info, err := os.Stat(heartbeatPath)
		if err != nil {
			errorCount++
			continue
		}
		age := time.Since(info.ModTime())
		if age < 0 {
			// modification time in the future; clock skew, count it as a
			// transient failure
			errorCount++
			continue
		}
		if age > staleAfter {
			c.debugf("heartbeat at %s is %s old; presuming the holder dead", heartbeatPath, age)
			return &Flag{}
		}
		errorCount = 0 // holder is alive, keep waiting
	}

	c.debugf("giving up on file lock at %s after %d consecutive heartbeat errors", lockPath, errorCount)
	return &Flag{}
}

func (c *Coordinator) debugf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Debugf(format, args...)
	}
}

// Acquire takes the lock at lockPath with default tuning, reporting long
// waits to stderr. See Coordinator.Acquire.
func Acquire(lockPath, waitMessage string) *Flag {
	c := &Coordinator{
		Reporter: display.NewConsoleReporter(os.Stderr),
		Logger:   logger.Default(),
	}
	return c.Acquire(lockPath, waitMessage)
}

// Flag is the result of a lax lock acquisition: either the exclusive lock is
// held by this process, or acquisition resolved to proceeding unlocked. A
// live locked Flag implies the heartbeat is being refreshed; Release is the
// only way to give the lock up.
type Flag struct {
	inner *flagInner
}

type flagInner struct {
	path        string
	lock        Locker
	hb          *heartbeat
	log         DebugLogger
	acquiredAt  time.Time
	releaseOnce sync.Once
}

// Locked reports whether this process actually holds the exclusive lock.
func (f *Flag) Locked() bool {
	return f != nil && f.inner != nil
}

// AcquiredAt returns when the lock was taken, or the zero time when unlocked.
func (f *Flag) AcquiredAt() time.Time {
	if !f.Locked() {
		return time.Time{}
	}
	return f.inner.acquiredAt
}

// Release stops the heartbeat and releases the OS lock. It is idempotent and
// safe on an unlocked Flag. Release failures are logged at debug level and
// otherwise ignored: the caller's work is already done and failing to unlock
// is not something it can recover from.
func (f *Flag) Release() {
	if !f.Locked() {
		return
	}
	f.inner.releaseOnce.Do(func() {
		f.inner.hb.stop()
		if err := f.inner.lock.Unlock(); err != nil {
			if f.inner.log != nil {
				f.inner.log.Debugf("failed releasing lock for %s: %v", f.inner.path, err)
			}
		}
	})
}
