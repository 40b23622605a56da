package repository

import (
	"strings"
	"testing"
)

func TestAdjustQuantityQueryGuardsAgainstNegativeStock(t *testing.T) {
	query := strings.ToLower(adjustQuantityQuery)

	if !strings.Contains(query, "quantity + $1 >= 0") {
		t.Fatal("expected the update to refuse movements that would go negative")
	}
	if !strings.Contains(query, "set quantity = quantity + $1") {
		t.Fatal("expected the movement to be applied relative to the current quantity")
	}
}

func TestAdjustQuantityQueryReturnsBeforeAndAfterFromOneRowVersion(t *testing.T) {
	query := strings.ToLower(adjustQuantityQuery)

	// RETURNING evaluates on the updated row, so quantity - $1 is the
	// pre-movement value and quantity the post-movement value of the
	// same atomic update. Reading either in a separate statement would
	// break quantity reconstruction from the ledger.
	if !strings.Contains(query, "returning quantity - $1, quantity") {
		t.Fatal("expected before/after quantities derived from the updated row itself")
	}
}

func TestRecordAdjustmentQueryCarriesReconstructionColumns(t *testing.T) {
	query := strings.ToLower(recordAdjustmentQuery)

	requiredFragments := []string{
		"insert into stock_adjustments",
		"previous_quantity",
		"new_quantity",
		"delta",
		"order_id",
		"actor",
	}
	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected ledger insert fragment %q to be present", fragment)
		}
	}
}
