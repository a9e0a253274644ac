package assessments_test

import (
	"regexp"
	"testing"

	"github.com/refurbly/gradeserver/internal/assessments"
)

var skuPattern = regexp.MustCompile(`^LPT-\d{8}-\d{6}-[0-9A-F]{8}$`)

func TestGenerateSKUFormat(t *testing.T) {
	sku := assessments.GenerateSKU()
	if !skuPattern.MatchString(sku) {
		t.Errorf("GenerateSKU() = %q, want match for %s", sku, skuPattern)
	}
}

func TestGenerateSKUUnique(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		sku := assessments.GenerateSKU()
		if seen[sku] {
			t.Fatalf("duplicate SKU %s", sku)
		}
		seen[sku] = true
	}
}
