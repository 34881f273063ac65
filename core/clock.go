package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// CoarseResolution is how often the coarse clock is refreshed. Entry
// timestamps are rendered to the millisecond, so a refresh twice per
// millisecond keeps the rendered time within one unit of the wall clock.
const CoarseResolution = 500 * time.Microsecond

var (
	coarseStart sync.Once
	coarseTime  atomic.Pointer[time.Time]
)

// Clock returns the source of entry timestamps. The wall clock is used
// unless coarse is set, in which case every logger in the process reads
// one shared cached time that a background ticker refreshes every
// CoarseResolution. The ticker starts on first use and never stops.
func Clock(coarse bool) func() time.Time {
	if !coarse {
		return time.Now
	}
	coarseStart.Do(runCoarseClock)
	return CoarseNow
}

func runCoarseClock() {
	now := time.Now()
	coarseTime.Store(&now)
	go func() {
		for t := range time.NewTicker(CoarseResolution).C {
			coarseTime.Store(&t)
		}
	}()
}

// CoarseNow returns the cached time. Before any logger enabled the
// coarse clock it reads the wall clock.
func CoarseNow() time.Time {
	if t := coarseTime.Load(); t != nil {
		return *t
	}
	return time.Now()
}
