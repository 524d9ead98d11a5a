package singleinstance

import (
	"log"
	"sync"
)

// Registry holds the single registered frontend handle. Register refuses
// a second handle, which is what keeps two plugin windows from coexisting
// inside one process even if instance detection were bypassed.
type Registry struct {
	mu       sync.Mutex
	frontend Frontend
}

func NewRegistry() *Registry { return &Registry{} }

// Register stores the handle if the slot is empty. Returns false when a
// frontend is already registered; the caller must not build a second
// window in that case.
func (r *Registry) Register(f Frontend) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frontend != nil {
		log.Printf("singleinstance: frontend already registered, refusing another")
		return false
	}
	r.frontend = f
	log.Printf("singleinstance: frontend registered")
	return true
}

// Unregister clears the stored handle unconditionally.
func (r *Registry) Unregister() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frontend != nil {
		log.Printf("singleinstance: frontend unregistered")
	}
	r.frontend = nil
}

// Current returns the registered handle, or nil.
func (r *Registry) Current() Frontend {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frontend
}
