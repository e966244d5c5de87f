package inventory

import (
	"slices"
	"strings"
	"time"

	"estoque-backend/internal/models"
	"estoque-backend/internal/spreadsheet"
)

// SortProducts orders by expiry ascending with missing expiry last, then by
// quantity ascending. Ties keep their current order.
func SortProducts(ps []models.Product) {
	slices.SortStableFunc(ps, compareProducts)
}

func compareProducts(a, b models.Product) int {
	switch {
	case a.Expiry == nil && b.Expiry != nil:
		return 1
	case a.Expiry != nil && b.Expiry == nil:
		return -1
	case a.Expiry != nil && b.Expiry != nil && !a.Expiry.Equal(*b.Expiry):
		return a.Expiry.Compare(*b.Expiry)
	}
	return a.Quantity - b.Quantity
}

// FilterBranch keeps the products of one branch.
func FilterBranch(ps []models.Product, branch string) []models.Product {
	out := make([]models.Product, 0, len(ps))
	for _, p := range ps {
		if p.BranchName == branch {
			out = append(out, p)
		}
	}
	return out
}

// SearchProducts matches term against barcode, name and brand, ignoring case.
// An empty term matches nothing.
func SearchProducts(ps []models.Product, term string) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []models.Product{}
	}

	out := make([]models.Product, 0)
	for _, p := range ps {
		if strings.Contains(strings.ToLower(p.Barcode), term) ||
			strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Brand), term) {
			out = append(out, p)
		}
	}
	return out
}

// ExpiringProducts returns products expiring on or before today+days, already
// expired ones included, sorted by expiry then quantity. Products without an
// expiry date never expire.
func ExpiringProducts(ps []models.Product, days int, now time.Time) []models.Product {
	limit := spreadsheet.DateOnly(now).AddDate(0, 0, days)

	out := make([]models.Product, 0)
	for _, p := range ps {
		if p.Expiry != nil && !p.Expiry.After(limit) {
			out = append(out, p)
		}
	}
	SortProducts(out)
	return out
}

type Summary struct {
	Items         int `json:"items"`
	TotalQuantity int `json:"total_quantity"`
}

func SummarizeProducts(ps []models.Product) Summary {
	s := Summary{Items: len(ps)}
	for _, p := range ps {
		s.TotalQuantity += p.Quantity
	}
	return s
}
