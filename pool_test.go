package audit2pdf

import (
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire() *Exporter
	Release(*Exporter)
	Size() int
	Close() error
} = (*ExporterPool)(nil)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit takes priority", workers: 4, want: 4},
		{name: "explicit=1 for sequential", workers: 1, want: 1},
		{name: "zero uses auto calculation", workers: 0, want: min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
		{name: "negative uses auto calculation", workers: -3, want: min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestNewExporterPool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "positive size", n: 3, want: 3},
		{name: "zero becomes 1", n: 0, want: 1},
		{name: "negative becomes 1", n: -2, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := NewExporterPool(tt.n)
			defer func() { _ = pool.Close() }()

			if pool.Size() != tt.want {
				t.Errorf("Size() = %d, want %d", pool.Size(), tt.want)
			}
		})
	}
}

func TestExporterPool_LazyCreation(t *testing.T) {
	t.Parallel()

	pool := NewExporterPool(2, WithFormat(FormatZIP))
	defer func() { _ = pool.Close() }()

	if pool.created != 0 {
		t.Fatalf("created = %d before first Acquire, want 0", pool.created)
	}

	a := pool.Acquire()
	b := pool.Acquire()
	if a == b {
		t.Error("two concurrent acquires returned the same Exporter")
	}
	if a.cfg.output != FormatZIP {
		t.Errorf("pool options not applied: output = %q", a.cfg.output)
	}

	pool.Release(a)
	if got := pool.Acquire(); got != a {
		t.Error("released Exporter was not reused")
	}
	if pool.created != 2 {
		t.Errorf("created = %d, want 2", pool.created)
	}
}

func TestExporterPool_AcquireBlocksWhenExhausted(t *testing.T) {
	t.Parallel()

	pool := NewExporterPool(1)
	defer func() { _ = pool.Close() }()

	first := pool.Acquire()

	got := make(chan *Exporter, 1)
	go func() { got <- pool.Acquire() }()

	select {
	case <-got:
		t.Fatal("Acquire() returned while the pool was exhausted")
	case <-time.After(50 * time.Millisecond):
	}

	pool.Release(first)
	select {
	case e := <-got:
		if e != first {
			t.Error("waiting Acquire() got a different Exporter")
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire() did not unblock after Release()")
	}
}

func TestExporterPool_CloseIdempotent(t *testing.T) {
	t.Parallel()

	pool := NewExporterPool(2)
	e := pool.Acquire()

	if err := pool.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	// Release after close is a no-op.
	pool.Release(e)
}

func TestExporterPool_ConcurrentAcquireRelease(t *testing.T) {
	t.Parallel()

	pool := NewExporterPool(3)
	defer func() { _ = pool.Close() }()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := pool.Acquire()
			pool.Release(e)
		}()
	}
	wg.Wait()

	pool.mu.Lock()
	created := pool.created
	pool.mu.Unlock()
	if created > 3 {
		t.Errorf("created = %d, want at most 3", created)
	}
}
