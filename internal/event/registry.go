package event

import (
	"sort"
	"sync"
)

// registry holds subscriptions keyed by topic pattern. Patterns keep their
// registration order so equal-priority handlers deliver first-in first-out.
type registry struct {
	mu       sync.RWMutex
	patterns []Topic
	subs     map[Topic][]*Subscription
	byID     map[string]*Subscription
}

func newRegistry() *registry {
	return &registry{
		subs: make(map[Topic][]*Subscription),
		byID: make(map[string]*Subscription),
	}
}

func (r *registry) add(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pattern := sub.Pattern()
	if _, ok := r.subs[pattern]; !ok {
		r.patterns = append(r.patterns, pattern)
	}
	r.subs[pattern] = append(r.subs[pattern], sub)
	r.byID[sub.ID()] = sub
}

func (r *registry) remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.byID[subID]
	if !ok {
		return false
	}
	pattern := sub.Pattern()
	subs := r.subs[pattern]
	for i, s := range subs {
		if s.ID() == subID {
			r.subs[pattern] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(r.subs[pattern]) == 0 {
		delete(r.subs, pattern)
		for i, p := range r.patterns {
			if p == pattern {
				r.patterns = append(r.patterns[:i], r.patterns[i+1:]...)
				break
			}
		}
	}
	delete(r.byID, subID)
	return true
}

// match returns the subscriptions whose pattern matches the topic, ordered by
// priority and, within a priority, by registration order.
func (r *registry) match(t Topic) []*Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Subscription
	for _, pattern := range r.patterns {
		if t.Matches(pattern) {
			all = append(all, r.subs[pattern]...)
		}
	}
	if len(all) == 0 {
		return nil
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].config.Priority < all[j].config.Priority
	})
	return all
}

func (r *registry) countActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, sub := range r.byID {
		if sub.IsActive() {
			count++
		}
	}
	return count
}
