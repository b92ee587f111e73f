package game

// WaveClock counts seconds down to the next wave.
type WaveClock struct {
	Number    int // wave about to be spawned; starts at 1
	Countdown int
	Duration  int
}

func NewWaveClock(duration int) WaveClock {
	return WaveClock{Number: 1, Countdown: duration, Duration: duration}
}

// Tick advances one second and reports whether the wave is due.
func (c *WaveClock) Tick() bool {
	if c.Countdown > 0 {
		c.Countdown--
	}
	return c.Countdown <= 0
}

// Start resets the countdown and moves to the next wave. It returns the
// number of the wave being started.
func (c *WaveClock) Start() int {
	n := c.Number
	c.Countdown = c.Duration
	c.Number++
	return n
}
