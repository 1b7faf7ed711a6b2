package ratelimit

import (
	"log"
	"sync"
)

// Budget caps the number of Gemini enrichment calls in a single run.
// Over-budget terms keep their match decision and get placeholder questions.
type Budget struct {
	mu   sync.Mutex
	used int
	max  int // 0 = unlimited
}

func NewBudget(max int) *Budget {
	return &Budget{max: max}
}

// Allow consumes one slot, returning false once the cap is reached.
func (b *Budget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		log.Printf("⚠️ Gemini request budget reached (%d/%d)", b.used, b.max)
		return false
	}
	b.used++
	return true
}

// Used returns how many slots were consumed so far.
func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}
