package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finitefield.org/catalog-admin/internal/admin/catalog"
)

type updateCall struct {
	id      int
	payload catalog.Payload
}

// recordingService counts calls and delegates to an in-memory catalog unless overridden.
type recordingService struct {
	mu sync.Mutex

	backing catalog.Service
	search  func(ctx context.Context, q catalog.Query) (catalog.SearchResult, error)
	saveErr error

	searches []catalog.Query
	creates  []catalog.Payload
	updates  []updateCall
}

func newRecordingService(count int) *recordingService {
	return &recordingService{backing: catalog.NewStaticServiceWith(sampleProducts(count))}
}

func (s *recordingService) Search(ctx context.Context, q catalog.Query) (catalog.SearchResult, error) {
	s.mu.Lock()
	s.searches = append(s.searches, q)
	override := s.search
	s.mu.Unlock()
	if override != nil {
		return override(ctx, q)
	}
	return s.backing.Search(ctx, q)
}

func (s *recordingService) Create(ctx context.Context, payload catalog.Payload) error {
	s.mu.Lock()
	s.creates = append(s.creates, payload)
	err := s.saveErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.backing.Create(ctx, payload)
}

func (s *recordingService) Update(ctx context.Context, id int, payload catalog.Payload) error {
	s.mu.Lock()
	s.updates = append(s.updates, updateCall{id: id, payload: payload})
	err := s.saveErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.backing.Update(ctx, id, payload)
}

func (s *recordingService) searchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.searches)
}

func (s *recordingService) lastSearch() catalog.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searches[len(s.searches)-1]
}

func sampleProducts(count int) []catalog.Product {
	products := make([]catalog.Product, 0, count)
	for i := 1; i <= count; i++ {
		products = append(products, catalog.Product{
			ID:       i,
			Title:    fmt.Sprintf("Product %02d", i),
			Price:    float64(100 - i),
			Category: &catalog.Category{ID: 2, Name: "Wear"},
			Images:   []string{fmt.Sprintf(`["https://img.example/%d.png"]`, i)},
		})
	}
	return products
}

// manualClock stands in for time.AfterFunc; timers only fire when told to.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	mu      sync.Mutex
	fn      func()
	fired   bool
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (c *manualClock) AfterFunc(_ time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// fire runs the i-th timer if it is still armed.
func (c *manualClock) fire(i int) {
	c.mu.Lock()
	t := c.timers[i]
	c.mu.Unlock()

	t.mu.Lock()
	if t.fired || t.stopped {
		t.mu.Unlock()
		return
	}
	t.fired = true
	t.mu.Unlock()
	t.fn()
}
