package service

import (
	"testing"

	"github.com/google/uuid"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/catalog/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/catalog/transport"
)

func TestFabricatedResponse_AvailabilityFollowsInStock(t *testing.T) {
	item := repository.FabricatedItem{ID: uuid.New(), Code: "TOP-01", Name: "Topper", PriceCents: 2000, InStock: true, Active: true}

	resp := fabricatedResponse(item)
	if resp.Kind != transport.KindFabricated {
		t.Fatalf("expected fabricated kind, got %s", resp.Kind)
	}
	if !resp.Available {
		t.Fatalf("expected item to be available")
	}
	if resp.AvailableQuantity != nil {
		t.Fatalf("expected no quantity for fabricated items, got %d", *resp.AvailableQuantity)
	}

	item.InStock = false
	if fabricatedResponse(item).Available {
		t.Fatalf("expected item to be unavailable")
	}
}

func TestFabricatedResponse_CarriesQuoteOrigin(t *testing.T) {
	quoteID := uuid.New()
	quoteType := "custom_design"
	item := repository.FabricatedItem{ID: uuid.New(), QuoteType: &quoteType, QuoteID: &quoteID}

	resp := fabricatedResponse(item)
	if resp.QuoteRef == nil || resp.QuoteRef.ID != quoteID || resp.QuoteRef.Type != quoteType {
		t.Fatalf("expected quote origin on response, got %+v", resp.QuoteRef)
	}

	item.QuoteType = nil
	if fabricatedResponse(item).QuoteRef != nil {
		t.Fatalf("expected no quote origin for regular items")
	}
}

func TestStockedResponse_QuantityDrivesAvailabilityAndLowStock(t *testing.T) {
	item := repository.StockedItem{ID: uuid.New(), Code: "BOX-01", Name: "Gift Box", PriceCents: 5000, Quantity: 3, LowStockThreshold: 2, Active: true}

	resp := stockedResponse(item)
	if !resp.Available || resp.LowStock {
		t.Fatalf("expected available and not low, got available=%v low=%v", resp.Available, resp.LowStock)
	}
	if resp.AvailableQuantity == nil || *resp.AvailableQuantity != 3 {
		t.Fatalf("expected quantity 3, got %v", resp.AvailableQuantity)
	}

	item.Quantity = 2
	resp = stockedResponse(item)
	if !resp.Available || !resp.LowStock {
		t.Fatalf("expected available but low at threshold, got available=%v low=%v", resp.Available, resp.LowStock)
	}

	item.Quantity = 0
	resp = stockedResponse(item)
	if resp.Available {
		t.Fatalf("expected sold-out item to be unavailable")
	}
	if !resp.LowStock {
		t.Fatalf("expected sold-out item to read as low stock")
	}
}
