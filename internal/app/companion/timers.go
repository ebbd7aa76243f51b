package companion

import "time"

// Timer slots. Arming a slot replaces whatever was pending in it.
const (
	slotReset       = "suggestion-reset"
	slotCelebration = "celebration"
	slotBreathing   = "breathing-tick"
	slotJournal     = "journal-prompt"
	slotBoop        = "boop-cooldown"
)

type pending struct {
	seq   uint64
	timer Timer
}

// timers owns every delayed callback of a session. All methods must be
// called with the session mutex held.
type timers struct {
	clock Clock
	seq   uint64
	slots map[string]pending
}

func newTimers(clock Clock) *timers {
	return &timers{clock: clock, slots: make(map[string]pending)}
}

// arm schedules f in slot after d. When it fires, fire is called with the
// slot's sequence number so a stale or cancelled callback can be dropped.
func (t *timers) arm(slot string, d time.Duration, fire func(slot string, seq uint64)) {
	t.cancel(slot)
	t.seq++
	seq := t.seq
	t.slots[slot] = pending{
		seq:   seq,
		timer: t.clock.AfterFunc(d, func() { fire(slot, seq) }),
	}
}

// claim removes the slot if seq is still the armed one.
func (t *timers) claim(slot string, seq uint64) bool {
	p, ok := t.slots[slot]
	if !ok || p.seq != seq {
		return false
	}
	delete(t.slots, slot)
	return true
}

func (t *timers) cancel(slot string) {
	if p, ok := t.slots[slot]; ok {
		p.timer.Stop()
		delete(t.slots, slot)
	}
}

func (t *timers) armed(slot string) bool {
	_, ok := t.slots[slot]
	return ok
}

func (t *timers) cancelAll() {
	for slot := range t.slots {
		t.cancel(slot)
	}
}
