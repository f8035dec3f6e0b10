package model

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft:  initialTime,
		isRunning: false,
		now:       time.Now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		logrus.WithField("started", c.lastStarted).Trace("clock started")
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		logrus.WithField("timeLeft", c.timeLeft).Trace("clock stopped")
		c.isRunning = false
	}
}

func (c *Clock) GetTimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.timeLeft - c.now().Sub(c.lastStarted)
	}
	return c.timeLeft
}

// Expired reports whether the clock has run down to zero.
func (c *Clock) Expired() bool {
	return c.GetTimeLeft() <= 0
}

// deciseconds is the unit the client renders clocks in.
func (c *Clock) deciseconds() int {
	left := c.GetTimeLeft()
	if left < 0 {
		left = 0
	}
	return int(left.Milliseconds() / 100)
}
