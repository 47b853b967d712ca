package ballistics

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"
)

const tolerance = 1e-9

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStepFirstUpdateStartsAtRaw(t *testing.T) {
	now := time.Now()
	got := Step(nil, -12, now, DefaultParams())
	if got.Value != -12 || got.Peak != -12 {
		t.Fatalf("Step(nil) = %+v, want value and peak -12", got)
	}
	if !got.Timestamp.Equal(now) || !got.PeakTimestamp.Equal(now) {
		t.Fatalf("Step(nil) timestamps = %v/%v, want %v", got.Timestamp, got.PeakTimestamp, now)
	}
}

func TestStepReleaseOneTimeConstant(t *testing.T) {
	t0 := time.Now()
	prev := Step(nil, 0, t0, DefaultParams())
	got := Step(&prev, -60, t0.Add(DefaultRelease), DefaultParams())

	want := -60 + 60/math.E
	if math.Abs(got.Value-want) > tolerance {
		t.Fatalf("Value = %v, want %v", got.Value, want)
	}
}

func TestStepInstantAttack(t *testing.T) {
	t0 := time.Now()
	prev := Step(nil, -40, t0, DefaultParams())
	got := Step(&prev, -3, t0.Add(time.Millisecond), DefaultParams())
	if got.Value != -3 {
		t.Fatalf("Value = %v, want -3", got.Value)
	}
}

func TestStepClockGoingBackwardsHoldsValue(t *testing.T) {
	t0 := time.Now()
	prev := Step(nil, -10, t0, DefaultParams())
	got := Step(&prev, -50, t0.Add(-time.Second), DefaultParams())
	if got.Value != -10 {
		t.Fatalf("Value = %v, want -10 for negative elapsed time", got.Value)
	}
	if got.Peak != -10 {
		t.Fatalf("Peak = %v, want -10 for negative elapsed time", got.Peak)
	}
}

func TestStepPeakHoldThenDecay(t *testing.T) {
	p := DefaultParams()
	t0 := time.Now()
	st := Step(nil, 0, t0, p)

	st = Step(&st, -60, t0.Add(500*time.Millisecond), p)
	if st.Peak != 0 {
		t.Fatalf("Peak during hold = %v, want 0", st.Peak)
	}

	st = Step(&st, -60, t0.Add(p.PeakHold+p.PeakRelease), p)
	want := -60 + 60/math.E
	if math.Abs(st.Peak-want) > tolerance {
		t.Fatalf("Peak after one release constant = %v, want %v", st.Peak, want)
	}

	st = Step(&st, -60, t0.Add(p.PeakHold+2*p.PeakRelease), p)
	// The second step decays the already decayed peak over the full two
	// constants since the hold ended.
	want = -60 + 60/(math.E*math.E*math.E)
	if math.Abs(st.Peak-want) > tolerance {
		t.Fatalf("Peak after two release constants = %v, want %v", st.Peak, want)
	}
	if !st.PeakTimestamp.Equal(t0) {
		t.Fatalf("PeakTimestamp = %v, want latch time %v", st.PeakTimestamp, t0)
	}
}

func TestStepPeakDecayCompoundsWithUpdates(t *testing.T) {
	p := DefaultParams()
	t0 := time.Now()

	// Reference decay of the peak from 0 toward -40 with one update every
	// 50 ms, each step applying exp(-(now-latch-hold)/release).
	ref := 0.0
	st := Step(nil, 0, t0, p)
	for ms := 50; ms <= 2000; ms += 50 {
		now := t0.Add(time.Duration(ms) * time.Millisecond)
		st = Step(&st, -40, now, p)

		if beyond := float64(ms) - 800; beyond > 0 {
			ref = -40 + (ref+40)*math.Exp(-beyond/1200)
		}
		if math.Abs(st.Peak-ref) > 1e-9 {
			t.Fatalf("t=%dms: Peak = %v, want %v", ms, st.Peak, ref)
		}
	}

	tests := []struct {
		at   int
		want float64
	}{
		{at: 1200, want: -31.075},
		{at: 1600, want: -39.862},
	}
	for _, tt := range tests {
		st := Step(nil, 0, t0, p)
		for ms := 50; ms <= tt.at; ms += 50 {
			st = Step(&st, -40, t0.Add(time.Duration(ms)*time.Millisecond), p)
		}
		if math.Abs(st.Peak-tt.want) > 1e-3 {
			t.Fatalf("t=%dms: Peak = %.3f, want %.3f", tt.at, st.Peak, tt.want)
		}
	}
}

func TestStepPeakDecayDependsOnUpdateRate(t *testing.T) {
	p := DefaultParams()
	t0 := time.Now()
	end := t0.Add(1200 * time.Millisecond)

	coarse := Step(nil, 0, t0, p)
	coarse = Step(&coarse, -40, end, p)

	fine := Step(nil, 0, t0, p)
	for ts := t0.Add(50 * time.Millisecond); !ts.After(end); ts = ts.Add(50 * time.Millisecond) {
		fine = Step(&fine, -40, ts, p)
	}

	want := -40 + 40*math.Exp(-400.0/1200)
	if math.Abs(coarse.Peak-want) > tolerance {
		t.Fatalf("single step Peak = %v, want %v", coarse.Peak, want)
	}
	if fine.Peak >= coarse.Peak {
		t.Fatalf("frequent updates should decay further: fine %v, coarse %v", fine.Peak, coarse.Peak)
	}
}

func TestStepPeakRelatchesOnNewMaximum(t *testing.T) {
	p := DefaultParams()
	t0 := time.Now()
	st := Step(nil, -20, t0, p)
	later := t0.Add(3 * time.Second)
	st = Step(&st, -30, later, p)
	st = Step(&st, -2, later.Add(10*time.Millisecond), p)
	if st.Peak != -2 {
		t.Fatalf("Peak = %v, want -2", st.Peak)
	}
	if !st.PeakTimestamp.Equal(later.Add(10 * time.Millisecond)) {
		t.Fatalf("PeakTimestamp not updated on latch: %v", st.PeakTimestamp)
	}
}

func TestStepPeakMonotonicBetweenLatches(t *testing.T) {
	p := DefaultParams()
	rng := rand.New(rand.NewSource(7))
	now := time.Now()

	var st *State
	maxSeen := math.Inf(-1)
	for i := 0; i < 2000; i++ {
		now = now.Add(time.Duration(rng.Intn(300)) * time.Millisecond)
		raw := -60 + rng.Float64()*66
		if rng.Intn(10) == 0 {
			raw = -80
		}
		next := Step(st, raw, now, p)

		if raw > maxSeen {
			maxSeen = raw
		}
		if next.Peak > maxSeen+tolerance {
			t.Fatalf("step %d: peak %v exceeds max raw %v", i, next.Peak, maxSeen)
		}
		if st != nil && next.Peak > st.Peak && next.Peak != raw {
			t.Fatalf("step %d: peak rose from %v to %v without latching raw %v", i, st.Peak, next.Peak, raw)
		}
		if math.IsNaN(next.Value) || math.IsInf(next.Value, 0) || math.IsNaN(next.Peak) {
			t.Fatalf("step %d: non-finite state %+v", i, next)
		}
		st = &next
	}
}

func TestEngineUpdateWritesStore(t *testing.T) {
	clock := newFakeClock()
	store := NewStore()
	e := NewEngine(store, WithClock(clock.Now))
	key := NewKey("bank1:3", "meter")

	if _, ok := store.Get(key); ok {
		t.Fatal("expected no state before first update")
	}

	e.Update(key, 0)
	clock.Advance(DefaultRelease)
	got := e.Update(key, -60)

	stored, ok := store.Get(key)
	if !ok {
		t.Fatal("expected state after update")
	}
	if stored != got {
		t.Fatalf("stored %+v, want %+v", stored, got)
	}
	if want := -60 + 60/math.E; math.Abs(got.Value-want) > tolerance {
		t.Fatalf("Value = %v, want %v", got.Value, want)
	}
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}
}

func TestEngineKeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(nil, WithClock(clock.Now))

	a := NewKey("a", "1")
	b := NewKey("b", "1")
	e.Update(a, 0)
	e.Update(b, -50)
	clock.Advance(time.Second)
	gotA := e.Update(a, -50)
	gotB := e.Update(b, -50)

	if gotB.Value != -50 {
		t.Fatalf("key b Value = %v, want -50", gotB.Value)
	}
	if gotA.Value <= -50 {
		t.Fatalf("key a should still be releasing, got %v", gotA.Value)
	}
}

func TestEngineConcurrentUpdates(t *testing.T) {
	clock := newFakeClock()
	e := NewEngine(nil, WithClock(clock.Now))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			shared := NewKey("shared", "meter")
			own := NewKey(fmt.Sprintf("ctrl%d", g), "meter")
			for i := 0; i < 200; i++ {
				raw := -float64((g*31 + i*7) % 60)
				e.Update(shared, raw)
				e.Update(own, raw)
			}
		}(g)
	}
	wg.Wait()

	if got := e.Store().Len(); got != 9 {
		t.Fatalf("Len() = %d, want 9", got)
	}
	st, ok := e.Store().Get(NewKey("shared", "meter"))
	if !ok {
		t.Fatal("missing shared state")
	}
	if st.Peak != 0 {
		t.Fatalf("shared peak = %v, want 0 (highest reading, clock frozen)", st.Peak)
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore()
	key := NewKey("c", "f")
	s.Put(key, State{Value: -1, Peak: -1})
	s.Delete(key)
	if _, ok := s.Get(key); ok {
		t.Fatal("expected state to be deleted")
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
}

func TestStoreUpdateAfterDeleteUsesLiveEntry(t *testing.T) {
	s := NewStore()
	key := NewKey("c", "f")
	s.Put(key, State{Value: -1})

	// An updater that fetched the entry just before Delete must not write
	// into the removed entry.
	stale := s.lookup(key, false)
	s.Delete(key)
	if !stale.dead {
		t.Fatal("deleted entry should be marked dead")
	}

	st := s.update(key, func(prev *State) State {
		if prev != nil {
			t.Fatalf("prev = %+v, want nil after delete", *prev)
		}
		return State{Value: -7}
	})
	if st.Value != -7 {
		t.Fatalf("update() = %+v", st)
	}
	if got, ok := s.Get(key); !ok || got.Value != -7 {
		t.Fatalf("Get() = %+v, %v, want the new state", got, ok)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestStoreDeleteWaitsForUpdate(t *testing.T) {
	s := NewStore()
	key := NewKey("c", "f")

	inFn := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		s.update(key, func(*State) State {
			close(inFn)
			<-release
			return State{Value: -3}
		})
	}()
	<-inFn

	go func() {
		s.Delete(key)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Delete returned while an update held the key")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-done
	if _, ok := s.Get(key); ok {
		t.Fatal("expected state to be deleted after the update finished")
	}
}

func TestStoreConcurrentUpdateAndDelete(t *testing.T) {
	clock := newFakeClock()
	s := NewStore()
	e := NewEngine(s, WithClock(clock.Now))
	key := NewKey("c", "f")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if i%2 == 0 {
					e.Update(key, -10)
				} else {
					s.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	st := e.Update(key, -5)
	if got, ok := s.Get(key); !ok || got != st {
		t.Fatalf("Get() = %+v, %v, want %+v", got, ok, st)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}
