package translit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestContextBuildsOnce(t *testing.T) {
	var builds int
	c := NewContext(WithBuildHook(func(time.Duration) { builds++ }))
	for _, s := range []string{"Москва", "Αθήνα", "Café"} {
		c.ASCII(s)
	}
	if err := c.Warm(); err != nil {
		t.Fatal(err)
	}
	if builds != 1 {
		t.Errorf("engine built %d times, want 1", builds)
	}
}

func TestContextWarm(t *testing.T) {
	c := NewContext()
	if err := c.Warm(); err != nil {
		t.Fatalf("Warm: %v", err)
	}
	if c.engine == nil {
		t.Fatal("Warm did not build the engine")
	}
}

func TestContextsAreIndependent(t *testing.T) {
	a, b := NewContext(), NewContext()
	a.ASCII("Москва")
	b.ASCII("Москва")
	if a.engine == b.engine {
		t.Error("two contexts share one engine")
	}
}

func TestPoolConcurrent(t *testing.T) {
	var builds atomic.Int64
	p := NewPool(WithBuildHook(func(time.Duration) { builds.Add(1) }))
	if err := p.Warm(); err != nil {
		t.Fatal(err)
	}

	inputs := map[string]string{
		"Москва":          "Moskva",
		"ευρώ":            "euro",
		"Häschen Spaß":    "Haschen Spass",
		"ავლაბრის ფონდი": "avlabris pondi",
	}
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				for in, want := range inputs {
					if got := p.ASCII(in); got != want {
						t.Errorf("ASCII(%q) = %q, want %q", in, got, want)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	if builds.Load() < 1 {
		t.Error("no engine was built")
	}
}

func TestPoolImplementsTransliterator(t *testing.T) {
	var _ Transliterator = NewPool()
	var _ Transliterator = NewContext()
}
