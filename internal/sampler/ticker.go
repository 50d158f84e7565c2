package sampler

import "time"

type ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type timeTicker struct {
	*time.Ticker
}

func newTimeTicker(d time.Duration) ticker {
	return timeTicker{time.NewTicker(d)}
}

func (t timeTicker) Chan() <-chan time.Time {
	return t.C
}
