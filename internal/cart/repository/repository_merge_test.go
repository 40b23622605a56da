package repository

import (
	"strings"
	"testing"
)

func TestMergeGuestIntoUserQueryIsOneStatement(t *testing.T) {
	query := strings.ToLower(mergeGuestIntoUserQuery)

	if strings.Contains(query, ";") {
		t.Fatal("merge must stay a single statement so both merges of a session share one snapshot")
	}

	requiredFragments := []string{
		"delete from cart_lines",
		"where session_id = $2",
		"returning product_kind, product_id, quantity",
		"on conflict (user_id, product_kind, product_id)",
		"do update set quantity = cart_lines.quantity + excluded.quantity",
	}
	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected merge query fragment %q to be present", fragment)
		}
	}
}

func TestMergeGuestIntoUserQueryFeedsUpsertFromConsumedRowsOnly(t *testing.T) {
	query := strings.ToLower(mergeGuestIntoUserQuery)

	deleteAt := strings.Index(query, "delete from cart_lines")
	insertAt := strings.Index(query, "insert into cart_lines")
	if deleteAt == -1 || insertAt == -1 || deleteAt > insertAt {
		t.Fatal("expected the upsert to read only rows the delete consumed")
	}

	// A join against unlocked guest rows is what allows a concurrent
	// merge to count a quantity twice.
	if strings.Contains(query, "from cart_lines g") {
		t.Fatal("merge must not join guest rows outside the consuming delete")
	}
	if !strings.Contains(query, "from moved") {
		t.Fatal("expected the upsert to select from the deleted row set")
	}
}
