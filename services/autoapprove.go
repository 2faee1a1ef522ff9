package services

import (
	"sync"
	"time"
)

// ToggleStatus is a consistent snapshot of a process-local feature toggle.
type ToggleStatus struct {
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy uint      `json:"updatedBy"`
}

// AutoApprovePolicy is the process-wide toggle that lets new listings skip
// manual review. It is in-memory only: the flag resets to disabled when the
// process restarts.
type AutoApprovePolicy struct {
	mu        sync.RWMutex
	enabled   bool
	updatedAt time.Time
	updatedBy uint
}

func NewAutoApprovePolicy() *AutoApprovePolicy {
	return &AutoApprovePolicy{updatedAt: time.Now()}
}

// Status returns the whole {enabled, updatedAt, updatedBy} triple as one
// snapshot; readers never observe a torn write.
func (p *AutoApprovePolicy) Status() ToggleStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return ToggleStatus{Enabled: p.enabled, UpdatedAt: p.updatedAt, UpdatedBy: p.updatedBy}
}

func (p *AutoApprovePolicy) Enabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.enabled
}

// Set replaces the triple atomically; concurrent writers are last-write-wins.
func (p *AutoApprovePolicy) Set(enabled bool, actorID uint) ToggleStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
	p.updatedAt = time.Now()
	p.updatedBy = actorID
	return ToggleStatus{Enabled: p.enabled, UpdatedAt: p.updatedAt, UpdatedBy: p.updatedBy}
}
