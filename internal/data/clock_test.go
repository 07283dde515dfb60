package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// stepClock returns the same instant until advanced.
type stepClock struct{ now time.Time }

func newStepClock(t time.Time) *stepClock { return &stepClock{now: t} }

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestSystemClockIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, systemClock{}.Now().Location())
}
