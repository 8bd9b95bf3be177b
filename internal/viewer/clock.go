package viewer

// fixedStep turns variable frame times into a whole number of fixed ticks.
type fixedStep struct {
	dt       float64
	maxSteps int
	acc      float64
}

// advance adds elapsed seconds and returns the number of ticks to run. Time
// beyond maxSteps ticks is dropped so a slow frame cannot snowball.
func (f *fixedStep) advance(elapsed float64) int {
	f.acc += elapsed
	n := int(f.acc / f.dt)
	if n > f.maxSteps {
		n = f.maxSteps
		f.acc = 0
		return n
	}
	f.acc -= float64(n) * f.dt
	return n
}
