// Package inventory exposes the catalog as explicit commands for a
// presentation layer: add, delete, filter and view.
package inventory

import (
	"context"
	"errors"
	"sync"

	"github.com/fairyhunter13/inventory-risk-advisor/internal/intake"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/model"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/obs"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/query"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/store"
)

// PersistWarning is reported when a change could not be written.
const PersistWarning = "changes could not be saved; they remain in memory for this session"

// AddResult is the outcome of a successful AddItem.
type AddResult struct {
	Item     model.Item `json:"item"`
	Warnings []string   `json:"warnings"`
}

// Service serializes commands against a single store so that concurrent
// callers observe one logical actor.
type Service struct {
	mu       sync.Mutex
	st       *store.Store
	criteria query.Criteria
	counters Counters
}

// Counters track command outcomes since start.
type Counters struct {
	Added          uint64 `json:"items_added"`
	Removed        uint64 `json:"items_removed"`
	Rejected       uint64 `json:"items_rejected"`
	PersistFailure uint64 `json:"persist_failures"`
}

func NewService(st *store.Store) *Service {
	return &Service{st: st}
}

// AddItem parses and validates raw, then creates the item. It returns a
// *model.ValidationError when the input is rejected. Advisory and
// persistence warnings accompany a successful result.
func (s *Service) AddItem(ctx context.Context, raw intake.RawInput) (AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, warnings, err := intake.Parse(raw)
	if err != nil {
		s.counters.Rejected++
		return AddResult{}, err
	}
	it, err := s.st.Add(ctx, in)
	switch {
	case errors.Is(err, store.ErrPersist):
		s.counters.PersistFailure++
		warnings = append(warnings, PersistWarning)
	case err != nil:
		s.counters.Rejected++
		return AddResult{}, err
	}
	s.counters.Added++
	obs.Logger.Info("item_added",
		"id", it.ID,
		"category", it.Category,
		"risk_score", it.RiskScore,
		"risk_level", it.RiskLevel,
		"decision", it.Decision,
	)
	if warnings == nil {
		warnings = []string{}
	}
	return AddResult{Item: it, Warnings: warnings}, nil
}

// DeleteItem removes id if present. It reports whether anything was
// removed and any warnings produced.
func (s *Service) DeleteItem(ctx context.Context, id int64) (bool, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed, err := s.st.Remove(ctx, id)
	var warnings []string
	if err != nil {
		s.counters.PersistFailure++
		warnings = append(warnings, PersistWarning)
	}
	if removed {
		s.counters.Removed++
		obs.Logger.Info("item_removed", "id", id)
	}
	return removed, warnings
}

// SetFilter stores the criteria and returns the resulting view. The stored
// category is replaced by the resolved one, so a category that no longer
// exists reverts to all categories.
func (s *Service) SetFilter(c query.Criteria) query.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := query.Build(s.st.List(), c)
	c.Category = v.Category
	s.criteria = c
	return v
}

// View applies the current criteria to the current contents.
func (s *Service) View() query.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := query.Build(s.st.List(), s.criteria)
	s.criteria.Category = v.Category
	return v
}

// Criteria returns the current filter state.
func (s *Service) Criteria() query.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Categories lists categories and the selection that survives
// recomputation: selected if still present, else "".
func (s *Service) Categories(selected string) ([]string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats := query.DistinctCategories(s.st.List())
	return cats, query.ResolveCategory(cats, selected)
}

// Stats returns the dashboard counters.
func (s *Service) Stats() query.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return query.Aggregate(s.st.List())
}

func (s *Service) Get(id int64) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Get(id)
}

// Counters returns a copy of the command counters.
func (s *Service) Counters() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters
}

// Len reports the number of items in the catalog.
func (s *Service) Len() int { return s.st.Len() }
