package classify

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"subsdesk/models"
)

// DefaultTestAccountPatterns match customer names or emails of internal test accounts
var DefaultTestAccountPatterns = []string{`(?i)\btest\b`, `(?i)^test[._-]`, `(?i)@example\.(com|org)$`}

// DefaultCancellationExclusionPatterns match cancellation notes that never owe a shipment
var DefaultCancellationExclusionPatterns = []string{
	`(?i)refund|rembours`,
	`(?i)duplicate|doublon`,
	`(?i)customer error|erreur( du| de)? client`,
	`(?i)\btest\b`,
}

// Policy parameterizes classification
type Policy struct {
	CutoffDay                     int
	TestAccountPatterns           []*regexp.Regexp
	CancellationExclusionPatterns []*regexp.Regexp
	// ExcludeLateCreated drops records created on or after the cutoff
	ExcludeLateCreated bool
}

// DefaultPolicy returns the policy used when nothing is configured
func DefaultPolicy() Policy {
	return Policy{
		CutoffDay:                     DefaultCutoffDay,
		TestAccountPatterns:           MustCompile(DefaultTestAccountPatterns),
		CancellationExclusionPatterns: MustCompile(DefaultCancellationExclusionPatterns),
		ExcludeLateCreated:            true,
	}
}

// Compile compiles a list of regular expressions, skipping blanks
func Compile(exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// MustCompile is Compile for built-in pattern lists
func MustCompile(exprs []string) []*regexp.Regexp {
	out, err := Compile(exprs)
	if err != nil {
		panic(err)
	}
	return out
}

// Classifier assigns every record to exactly one category
type Classifier struct {
	policy Policy
}

// New creates a classifier for a policy
func New(policy Policy) *Classifier {
	return &Classifier{policy: policy}
}

// Policy returns the classifier's policy
func (c *Classifier) Policy() Policy {
	return c.policy
}

// Classify partitions records against cutoff. IDs in retain force a cancelled record
// to be retained unless its cancellation note excludes it.
func (c *Classifier) Classify(records []models.SubscriptionRecord, cutoff time.Time, retain map[string]bool) *models.ClassifiedBatch {
	batch := &models.ClassifiedBatch{
		Cutoff:  cutoff,
		Entries: make([]models.Classification, 0, len(records)),
	}
	for _, rec := range records {
		category, reason := c.classifyOne(rec, cutoff, retain)
		batch.Entries = append(batch.Entries, models.Classification{
			Record:   rec,
			Category: category,
			Reason:   reason,
		})
	}
	return batch
}

// Rules are evaluated in order; the first match decides.
func (c *Classifier) classifyOne(rec models.SubscriptionRecord, cutoff time.Time, retain map[string]bool) (models.Category, string) {
	if c.IsTestAccount(rec) {
		return models.CategoryExcludedTest, "test account"
	}

	if c.policy.ExcludeLateCreated && IsLate(rec, cutoff) {
		return models.CategoryExcludedLate, fmt.Sprintf("created on or after %s", cutoff.Format("2006-01-02"))
	}

	switch rec.Status {
	case models.StatusActive:
		return models.CategoryActive, "active"

	case models.StatusCancelled:
		if pattern := matchAny(c.policy.CancellationExclusionPatterns, rec.CancellationNote); pattern != "" {
			return models.CategoryDroppedCancelled, fmt.Sprintf("cancellation note matches %s", pattern)
		}
		if retain[rec.ID] {
			return models.CategoryRetainedCancelled, "retained on request"
		}
		// An unknown next order date is never proof of a pre-paid cycle.
		if rec.NextOrderDate == nil {
			return models.CategoryDroppedCancelled, "next order date missing or unparseable"
		}
		if rec.NextOrderDate.After(cutoff) {
			return models.CategoryRetainedCancelled, "next order date after cutoff"
		}
		return models.CategoryDroppedCancelled, "next order date on or before cutoff"

	default:
		return models.CategoryExcludedOther, fmt.Sprintf("status %s", rec.Status)
	}
}

// IsTestAccount reports whether the customer name or email matches a test pattern
func (c *Classifier) IsTestAccount(rec models.SubscriptionRecord) bool {
	return matchAny(c.policy.TestAccountPatterns, rec.CustomerName) != "" ||
		matchAny(c.policy.TestAccountPatterns, rec.CustomerEmail) != ""
}

// NoteExcludes reports whether a cancellation note matches an exclusion pattern
func (c *Classifier) NoteExcludes(rec models.SubscriptionRecord) bool {
	return matchAny(c.policy.CancellationExclusionPatterns, rec.CancellationNote) != ""
}

// IsLate reports whether a record was created on or after cutoff. Records without
// a readable creation date are not late.
func IsLate(rec models.SubscriptionRecord, cutoff time.Time) bool {
	return rec.CreatedAt != nil && !rec.CreatedAt.Before(cutoff)
}

func matchAny(patterns []*regexp.Regexp, value string) string {
	if value == "" {
		return ""
	}
	for _, re := range patterns {
		if re.MatchString(value) {
			return re.String()
		}
	}
	return ""
}
