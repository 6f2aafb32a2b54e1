package usecase

import (
	"sync"
	"time"
)

// turnScheduler - at most one pending delayed turn per game.
type turnScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

func newTurnScheduler() *turnScheduler {
	return &turnScheduler{
		timers: make(map[string]*time.Timer),
	}
}

// Schedule - runs fn after delay, replacing whatever was pending for the game.
func (that *turnScheduler) Schedule(gameID string, delay time.Duration, fn func()) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	if pending, ok := that.timers[gameID]; ok {
		pending.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		that.mu.Lock()
		if that.timers[gameID] == timer {
			delete(that.timers, gameID)
		}
		that.mu.Unlock()

		fn()
	})
	that.timers[gameID] = timer
}

// Cancel - drops the pending turn of the game. A callback that already
// started still runs, so callers must also check for staleness.
func (that *turnScheduler) Cancel(gameID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if pending, ok := that.timers[gameID]; ok {
		pending.Stop()
		delete(that.timers, gameID)
	}
}

func (that *turnScheduler) Pending(gameID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, ok := that.timers[gameID]
	return ok
}

// Stop - cancels everything and refuses new work.
func (that *turnScheduler) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for gameID, pending := range that.timers {
		pending.Stop()
		delete(that.timers, gameID)
	}
	that.closed = true
}

// gameLocks - serializes load-modify-save cycles per game. An entry lives
// only while someone holds or waits for it.
type gameLocks struct {
	mu    sync.Mutex
	locks map[string]*gameLock
}

type gameLock struct {
	sync.Mutex
	refs int
}

func newGameLocks() *gameLocks {
	return &gameLocks{
		locks: make(map[string]*gameLock),
	}
}

// Lock - blocks until the game is free and returns the unlock func.
func (that *gameLocks) Lock(gameID string) func() {
	that.mu.Lock()
	lock, ok := that.locks[gameID]
	if !ok {
		lock = &gameLock{}
		that.locks[gameID] = lock
	}
	lock.refs++
	that.mu.Unlock()

	lock.Lock()

	return func() {
		lock.Unlock()

		that.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(that.locks, gameID)
		}
		that.mu.Unlock()
	}
}

func (that *gameLocks) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.locks)
}
