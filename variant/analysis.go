package variant

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"subsdesk/ingest"
	"subsdesk/models"
)

// Header aliases of the order export, compared case-insensitively
var (
	EmailAliases    = []string{"customer: email", "email", "customer_email"}
	CountryAliases  = []string{"shipping: country", "country", "shipping_country"}
	ProductAliases  = []string{"line: name", "product_name", "item_name"}
	QuantityAliases = []string{"line: quantity", "quantity", "qty"}
	StatusAliases   = []string{"payment: status", "status", "payment_status"}
	LineTypeAliases = []string{"line: type", "type", "line_type"}
)

const (
	paidStatus   = "paid"
	lineItemType = "line item"
)

// Columns maps the roles of an order export to its actual headers.
// Quantity, Status and LineType are optional and may be empty.
type Columns struct {
	Email    string
	Country  string
	Product  string
	Quantity string
	Status   string
	LineType string
}

// DetectColumns finds the order export columns; email, country and product are required
func DetectColumns(t *models.Table) (Columns, error) {
	var cols Columns
	var missing []string

	required := []struct {
		target  *string
		name    string
		aliases []string
	}{
		{&cols.Email, "email", EmailAliases},
		{&cols.Country, "country", CountryAliases},
		{&cols.Product, "product", ProductAliases},
	}
	for _, r := range required {
		col, ok := ingest.FindColumn(t, r.aliases...)
		if !ok {
			missing = append(missing, r.name)
			continue
		}
		*r.target = col
	}
	if len(missing) > 0 {
		return cols, &models.MissingColumnError{Table: t.Name, Columns: missing}
	}

	cols.Quantity, _ = ingest.FindColumn(t, QuantityAliases...)
	cols.Status, _ = ingest.FindColumn(t, StatusAliases...)
	cols.LineType, _ = ingest.FindColumn(t, LineTypeAliases...)
	return cols, nil
}

// FilterRows returns the rows that count as purchased products. The paid and
// line-item filters only apply when at least one row carries those values.
func FilterRows(t *models.Table, cols Columns) []int {
	rows := lo.Range(t.Len())
	rows = keepIfPresent(t, rows, cols.Status, paidStatus)
	rows = keepIfPresent(t, rows, cols.LineType, lineItemType)
	return rows
}

func keepIfPresent(t *models.Table, rows []int, column, want string) []int {
	if column == "" {
		return rows
	}
	matches := lo.Filter(rows, func(row int, _ int) bool {
		return strings.EqualFold(strings.TrimSpace(t.Value(row, column)), want)
	})
	if len(matches) == 0 {
		return rows
	}
	return matches
}

// Products lists the distinct product names of the given rows, sorted
func Products(t *models.Table, cols Columns, rows []int) []string {
	names := lo.FilterMap(rows, func(row int, _ int) (string, bool) {
		name := strings.TrimSpace(t.Value(row, cols.Product))
		return name, name != ""
	})
	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}

// Key builds the variant key "{qty}× {product}" joined by " + ", products sorted by name
func Key(products map[string]int) string {
	names := lo.Keys(products)
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%d× %s", products[name], name)
	}
	return strings.Join(parts, " + ")
}

// GroupByCustomer builds one variant per customer email, sorted by email.
// The country is the one of the customer's first row.
func GroupByCustomer(t *models.Table, cols Columns, rows []int) []models.CustomerVariant {
	byEmail := lo.GroupBy(rows, func(row int) string {
		return strings.ToLower(strings.TrimSpace(t.Value(row, cols.Email)))
	})
	delete(byEmail, "")

	emails := lo.Keys(byEmail)
	sort.Strings(emails)

	customers := make([]models.CustomerVariant, 0, len(emails))
	for _, email := range emails {
		lines := byEmail[email]
		products := map[string]int{}
		for _, row := range lines {
			name := strings.TrimSpace(t.Value(row, cols.Product))
			if name == "" {
				continue
			}
			products[name] += quantity(t, cols, row)
		}
		if len(products) == 0 {
			continue
		}
		customers = append(customers, models.CustomerVariant{
			Email:    email,
			Country:  strings.TrimSpace(t.Value(lines[0], cols.Country)),
			Key:      Key(products),
			Products: products,
		})
	}
	return customers
}

func quantity(t *models.Table, cols Columns, row int) int {
	if cols.Quantity == "" {
		return 1
	}
	raw := strings.TrimSpace(t.Value(row, cols.Quantity))
	if raw == "" {
		return 1
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 1
}

// Stats aggregates customers sharing a variant key, counting them per country
func Stats(customers []models.CustomerVariant) []models.VariantStat {
	index := map[string]int{}
	var stats []models.VariantStat
	for _, c := range customers {
		i, ok := index[c.Key]
		if !ok {
			i = len(stats)
			index[c.Key] = i
			stats = append(stats, models.VariantStat{
				Key:       c.Key,
				Products:  c.Products,
				Countries: map[string]int{},
			})
		}
		stats[i].Countries[c.Country]++
	}
	return stats
}

// Organize places each variant in the section of the first selected product it
// contains; variants no selected product claims go to a trailing section.
// Within a section variants are ordered by customer count, then key.
func Organize(stats []models.VariantStat, ordered []string) []models.VariantSection {
	used := map[string]bool{}
	var sections []models.VariantSection

	for _, product := range ordered {
		var variants []models.VariantStat
		for _, s := range stats {
			if used[s.Key] {
				continue
			}
			if _, ok := s.Products[product]; ok {
				variants = append(variants, s)
				used[s.Key] = true
			}
		}
		if len(variants) > 0 {
			sortByPopularity(variants)
			sections = append(sections, models.VariantSection{Title: product, Variants: variants})
		}
	}

	remaining := lo.Filter(stats, func(s models.VariantStat, _ int) bool { return !used[s.Key] })
	if len(remaining) > 0 {
		sortByPopularity(remaining)
		sections = append(sections, models.VariantSection{Title: models.OtherCombinationsTitle, Variants: remaining})
	}
	return sections
}

func sortByPopularity(variants []models.VariantStat) {
	sort.SliceStable(variants, func(i, j int) bool {
		ti, tj := variants[i].Total(), variants[j].Total()
		if ti != tj {
			return ti > tj
		}
		return variants[i].Key < variants[j].Key
	})
}

// Analyze runs the whole analysis of an order export
func Analyze(t *models.Table, ordered []string) (*models.VariantReport, error) {
	cols, err := DetectColumns(t)
	if err != nil {
		return nil, err
	}

	rows := FilterRows(t, cols)
	customers := GroupByCustomer(t, cols, rows)
	stats := Stats(customers)

	countries := lo.Uniq(lo.Map(customers, func(c models.CustomerVariant, _ int) string { return c.Country }))
	sort.Strings(countries)

	return &models.VariantReport{
		Products:       Products(t, cols, rows),
		Countries:      countries,
		Sections:       Organize(stats, ordered),
		Users:          len(customers),
		UniqueVariants: len(stats),
	}, nil
}
