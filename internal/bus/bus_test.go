package bus

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestPublishNext(t *testing.T) {
	b := New()
	b.Publish(SyncProgress{Percent: 42})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	evt, ok := b.Next(ctx)
	if !ok {
		t.Fatal("Next() returned false")
	}
	sp, isProgress := evt.(SyncProgress)
	if !isProgress || sp.Percent != 42 {
		t.Errorf("got %#v, want SyncProgress{42}", evt)
	}
}

func TestFIFOOrder(t *testing.T) {
	b := New()
	for i := 0; i < 100; i++ {
		b.Publish(SyncProgress{Percent: i})
	}

	for i := 0; i < 100; i++ {
		evt, ok := b.Next(context.Background())
		if !ok {
			t.Fatalf("Next() returned false at %d", i)
		}
		if got := evt.(SyncProgress).Percent; got != i {
			t.Fatalf("event %d = %d, want %d", i, got, i)
		}
	}
}

func TestNoDropUnderBurst(t *testing.T) {
	b := New()
	const producers, perProducer = 8, 5000

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				b.Publish(Redraw{})
			}
		}()
	}
	wg.Wait()

	if got := b.Len(); got != producers*perProducer {
		t.Errorf("Len() = %d, want %d", got, producers*perProducer)
	}
	for i := 0; i < producers*perProducer; i++ {
		if _, ok := b.Next(context.Background()); !ok {
			t.Fatalf("lost event at %d", i)
		}
	}
}

func TestPerProducerOrderPreserved(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				b.Publish(Receipt{Chat: string(rune('a' + p)), Kind: string(rune(i))})
			}
		}(p)
	}
	wg.Wait()

	last := map[string]int{}
	for i := 0; i < 4000; i++ {
		evt, _ := b.Next(context.Background())
		r := evt.(Receipt)
		seq := int([]rune(r.Kind)[0])
		if prev, seen := last[r.Chat]; seen && seq <= prev {
			t.Fatalf("producer %s out of order: %d after %d", r.Chat, seq, prev)
		}
		last[r.Chat] = seq
	}
}

func TestNextBlocksUntilPublish(t *testing.T) {
	b := New()
	got := make(chan Event, 1)
	go func() {
		evt, _ := b.Next(context.Background())
		got <- evt
	}()

	select {
	case evt := <-got:
		t.Fatalf("Next() returned early with %v", evt)
	case <-time.After(50 * time.Millisecond):
	}

	b.Publish(StateSyncComplete{})

	select {
	case evt := <-got:
		if _, ok := evt.(StateSyncComplete); !ok {
			t.Errorf("got %#v, want StateSyncComplete", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNextHonorsContext(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := b.Next(ctx); ok {
		t.Error("Next() on cancelled context should return false")
	}
}

func TestCloseDrainsThenStops(t *testing.T) {
	b := New()
	b.Publish(Redraw{})
	b.Close()
	b.Publish(Redraw{})

	if _, ok := b.Next(context.Background()); !ok {
		t.Fatal("queued event lost on Close")
	}
	if _, ok := b.Next(context.Background()); ok {
		t.Error("Next() after drain should return false")
	}
}
