package heuristics

import (
	"reflect"
	"testing"
)

func TestParseProductLineTrailingGroups(t *testing.T) {
	p, ok := parseProductLine("3  Widget A  10.00  30.00")
	if !ok {
		t.Fatal("expected a product")
	}
	want := Product{Description: "Widget A", Quantity: "3", Price: "10.00"}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}
}

func TestParseProductLineColumnSplit(t *testing.T) {
	p, ok := parseProductLine("2\tSteel Brackets\t$4.50")
	if !ok {
		t.Fatal("expected a product")
	}
	want := Product{Description: "Steel Brackets", Quantity: "2", Price: "4.50"}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}
}

func TestParseProductLineTokenScrape(t *testing.T) {
	p, ok := parseProductLine("Box of 12 hinges $8.25 net")
	if !ok {
		t.Fatal("expected a product")
	}
	if p.Quantity != "12" {
		t.Errorf("quantity = %q, want 12", p.Quantity)
	}
	if p.Price != "8.25" {
		t.Errorf("price = %q, want 8.25", p.Price)
	}
	if p.Description == "" {
		t.Error("description should not be empty")
	}
}

func TestExtractProductsTableSection(t *testing.T) {
	text := `DELIVERY NOTE
QTY DESCRIPTION UNIT PRICE AMOUNT
2  Oak Table  120.00  240.00
4  Side Chair  35.00  140.00
TOTAL 380.00
Received by: J Smith`

	got := ExtractProducts(text)
	want := []Product{
		{Description: "Oak Table", Quantity: "2", Price: "120.00"},
		{Description: "Side Chair", Quantity: "4", Price: "35.00"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestExtractProductsGenericFallback(t *testing.T) {
	// No table keywords at all; the generic four-column scan should still
	// find the line.
	text := "ref 9913\n5  Copper Pipe  2.10  10.50\nthanks for your business"
	got := ExtractProducts(text)
	if len(got) != 1 {
		t.Fatalf("got %d products, want 1: %+v", len(got), got)
	}
	if got[0].Description != "Copper Pipe" {
		t.Errorf("description = %q", got[0].Description)
	}
}

func TestExtractProductsDropsShortLines(t *testing.T) {
	text := "ITEM QTY PRICE\nab1\nno digits here\nTOTAL 0.00"
	if got := ExtractProducts(text); len(got) != 0 {
		t.Errorf("expected no products, got %+v", got)
	}
}

func TestExtractProductsPreservesOrder(t *testing.T) {
	text := "QTY DESCRIPTION PRICE\n1  First Item  1.00  1.00\n2  Second Item  2.00  4.00\n3  Third Item  3.00  9.00\nSubtotal"
	got := ExtractProducts(text)
	if len(got) != 3 {
		t.Fatalf("got %d products, want 3", len(got))
	}
	for i, want := range []string{"First Item", "Second Item", "Third Item"} {
		if got[i].Description != want {
			t.Errorf("products[%d].Description = %q, want %q", i, got[i].Description, want)
		}
	}
}
