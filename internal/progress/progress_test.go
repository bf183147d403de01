package progress

import (
	"sync"
	"testing"
	"time"
)

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Hour, 1024)

	snap := tr.Snapshot()
	if snap.Phase != PhaseWalking {
		t.Errorf("initial phase = %v, want %v", snap.Phase, PhaseWalking)
	}
	if snap.MinSize != 1024 {
		t.Errorf("initial min size = %d, want 1024", snap.MinSize)
	}

	tr.Update(func(s *Snapshot) {
		s.Phase = PhaseHashing
		s.FilesSeen = 42
	})

	snap = tr.Snapshot()
	if snap.Phase != PhaseHashing || snap.FilesSeen != 42 {
		t.Errorf("snapshot = %+v, update not applied", snap)
	}
	if snap.Budget != time.Hour {
		t.Errorf("budget = %v, untouched fields must survive updates", snap.Budget)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	tr := NewTracker(time.Hour, 0)
	ch := tr.Subscribe()
	defer tr.Unsubscribe(ch)

	tr.Update(func(s *Snapshot) { s.FilesSeen = 7 })

	select {
	case snap := <-ch:
		if snap.FilesSeen != 7 {
			t.Errorf("received FilesSeen = %d, want 7", snap.FilesSeen)
		}
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}
}

func TestSlowSubscriberDoesNotBlockUpdates(t *testing.T) {
	tr := NewTracker(time.Hour, 0)
	ch := tr.Subscribe()
	defer tr.Unsubscribe(ch)

	// Never drain ch; far more updates than its buffer can hold must still
	// complete promptly.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			tr.Update(func(s *Snapshot) { s.FilesSeen = int64(i) })
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("updates blocked on a slow subscriber")
	}

	if tr.Snapshot().FilesSeen != 999 {
		t.Errorf("final FilesSeen = %d, want 999", tr.Snapshot().FilesSeen)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	tr := NewTracker(time.Hour, 0)
	ch := tr.Subscribe()
	tr.Unsubscribe(ch)

	if _, open := <-ch; open {
		t.Error("channel should be closed after Unsubscribe")
	}

	// Updates after removal must not panic on the closed channel.
	tr.Update(func(s *Snapshot) { s.FilesSeen = 1 })
}

func TestConcurrentUpdatesAndReads(t *testing.T) {
	tr := NewTracker(time.Hour, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Update(func(s *Snapshot) { s.FilesSeen++ })
				_ = tr.Snapshot()
			}
		}()
	}
	wg.Wait()

	if got := tr.Snapshot().FilesSeen; got != 800 {
		t.Errorf("FilesSeen = %d after 800 increments, want 800", got)
	}
}
