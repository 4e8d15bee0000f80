// Package query derives filtered views and dashboard counters from a
// snapshot of the catalog. Nothing is cached; every call recomputes.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/fairyhunter13/inventory-risk-advisor/internal/model"
)

// LowStockBelow is the quantity under which an item counts as low stock.
const LowStockBelow = 10

// Stats are the dashboard counters.
type Stats struct {
	Total         int `json:"total"`
	HighRiskCount int `json:"highRiskCount"`
	LowStockCount int `json:"lowStockCount"`
	TopRiskScore  int `json:"topRiskScore"`
}

// Filter keeps items whose name contains search (case-insensitive) and,
// when category is non-empty, whose category equals it exactly.
func Filter(snapshot []model.Item, search, category string) []model.Item {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]model.Item, 0, len(snapshot))
	for _, it := range snapshot {
		if !strings.Contains(strings.ToLower(it.Name), needle) {
			continue
		}
		if category != "" && it.Category != category {
			continue
		}
		out = append(out, it)
	}
	return out
}

// DistinctCategories lists categories in first-seen order.
func DistinctCategories(snapshot []model.Item) []string {
	seen := make(map[string]struct{}, len(snapshot))
	out := []string{}
	for _, it := range snapshot {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}

// ResolveCategory keeps selected when it is still one of categories and
// falls back to "" (all categories) otherwise.
func ResolveCategory(categories []string, selected string) string {
	if slices.Contains(categories, selected) {
		return selected
	}
	return ""
}

// Aggregate computes Stats over snapshot.
func Aggregate(snapshot []model.Item) Stats {
	st := Stats{Total: len(snapshot)}
	for _, it := range snapshot {
		if it.RiskLevel == model.RiskHigh {
			st.HighRiskCount++
		}
		if it.Quantity < LowStockBelow {
			st.LowStockCount++
		}
		st.TopRiskScore = max(st.TopRiskScore, it.RiskScore)
	}
	return st
}

// SortKey names an ordering for a view.
type SortKey string

const (
	SortAdded    SortKey = "added"
	SortRisk     SortKey = "risk"
	SortName     SortKey = "name"
	SortQuantity SortKey = "quantity"
)

// ParseSortKey accepts the empty string as SortAdded.
func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "", SortAdded:
		return SortAdded, true
	case SortRisk, SortName, SortQuantity:
		return k, true
	default:
		return "", false
	}
}

// Sort orders items in place; ties keep their insertion order.
func Sort(items []model.Item, key SortKey) {
	switch key {
	case SortRisk:
		slices.SortStableFunc(items, func(a, b model.Item) int { return cmp.Compare(b.RiskScore, a.RiskScore) })
	case SortName:
		slices.SortStableFunc(items, func(a, b model.Item) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortQuantity:
		slices.SortStableFunc(items, func(a, b model.Item) int { return cmp.Compare(a.Quantity, b.Quantity) })
	}
}

// Criteria is the filter state a presentation layer holds.
type Criteria struct {
	Search   string  `json:"search"`
	Category string  `json:"category"`
	Sort     SortKey `json:"sort"`
}

// View is everything a renderer needs for one screen.
type View struct {
	Items      []model.Item `json:"items"`
	Categories []string     `json:"categories"`
	Category   string       `json:"category"`
	Stats      Stats        `json:"stats"`
}

// Build applies c to snapshot. A category that no longer exists is dropped
// before filtering. Stats cover the whole snapshot, not the filtered items.
func Build(snapshot []model.Item, c Criteria) View {
	cats := DistinctCategories(snapshot)
	cat := ResolveCategory(cats, c.Category)
	items := Filter(snapshot, c.Search, cat)
	Sort(items, c.Sort)
	return View{
		Items:      items,
		Categories: cats,
		Category:   cat,
		Stats:      Aggregate(snapshot),
	}
}
