package flow

// armLocked (re)starts the resend countdown. Any pending tick is cancelled
// first, so at most one tick is ever scheduled.
func (f *Flow) armLocked() {
	f.disarmLocked()
	if f.session == nil || f.session.ResendCooldownSeconds <= 0 {
		return
	}

	gen := f.timerGen
	f.timer = f.clock.AfterFunc(tickInterval, func() { f.tick(gen) })
}

// disarmLocked cancels the pending tick. Bumping the generation also defuses a
// tick whose callback already started and is waiting for the lock.
func (f *Flow) disarmLocked() {
	f.timerGen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

func (f *Flow) tick(gen uint64) {
	f.mu.Lock()
	if gen != f.timerGen || f.closed || f.session == nil {
		f.mu.Unlock()
		return
	}

	if f.session.ResendCooldownSeconds > 0 {
		f.session.ResendCooldownSeconds--
	}

	f.timer = nil
	if f.session.ResendCooldownSeconds > 0 {
		f.timer = f.clock.AfterFunc(tickInterval, func() { f.tick(gen) })
	}

	evt := f.cooldownEventLocked()
	f.mu.Unlock()
	f.dispatch(evt)
}
