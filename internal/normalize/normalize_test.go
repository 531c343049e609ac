package normalize

import (
	"testing"

	"github.com/docuflow/delivery-notes/internal/extract"
)

func TestFlattenEmptyProducts(t *testing.T) {
	res := extract.Result{
		Sender:          "supplier@example.com",
		ShippingAddress: "Acme Corp\n12 Harbour Street",
		Date:            "15/07/2022",
		TotalPrice:      "134.50",
	}
	rows := Flatten(res)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.ProductDescription != "" || r.Quantity != "" || r.Price != "" {
		t.Errorf("item fields should be blank: %+v", r)
	}
	if r.RowTotal != "134.50" {
		t.Errorf("RowTotal = %q, want 134.50", r.RowTotal)
	}
	if r.ShippingAddress != "Acme Corp 12 Harbour Street" {
		t.Errorf("address not collapsed: %q", r.ShippingAddress)
	}
}

func TestFlattenOneRowPerProduct(t *testing.T) {
	res := extract.Result{
		ShippingAddress: "somewhere",
		Date:            "2022-01-01",
		TotalPrice:      "95.00",
		Products: []extract.Product{
			{Description: "Product 1", Quantity: "5", Price: "10.00"},
			{Description: "Product 2", Quantity: "3", Price: "15.00"},
		},
	}
	rows := Flatten(res)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].ProductDescription != "Product 1" || rows[1].ProductDescription != "Product 2" {
		t.Errorf("order not preserved: %+v", rows)
	}
	// Multi-product document: per-line totals are recomputed.
	if rows[0].RowTotal != "50.00" {
		t.Errorf("rows[0].RowTotal = %q, want 50.00", rows[0].RowTotal)
	}
	if rows[1].RowTotal != "45.00" {
		t.Errorf("rows[1].RowTotal = %q, want 45.00", rows[1].RowTotal)
	}
}

func TestFlattenSingleProductKeepsStatedTotal(t *testing.T) {
	res := extract.Result{
		TotalPrice: "99.99",
		Products:   []extract.Product{{Description: "Thing", Quantity: "3", Price: "10.00"}},
	}
	rows := Flatten(res)
	if rows[0].RowTotal != "99.99" {
		t.Errorf("RowTotal = %q, want stated total 99.99", rows[0].RowTotal)
	}
}

func TestFlattenRecomputesWhenTotalMissing(t *testing.T) {
	res := extract.Result{
		Products: []extract.Product{{Description: "Thing", Quantity: "4", Price: "2.50"}},
	}
	rows := Flatten(res)
	if rows[0].RowTotal != "10.00" {
		t.Errorf("RowTotal = %q, want 10.00", rows[0].RowTotal)
	}
}

func TestFlattenGarbageNeverFails(t *testing.T) {
	res := extract.Result{
		TotalPrice: "not a number",
		Date:       "",
		Products: []extract.Product{
			{Description: "Mystery", Quantity: "about five", Price: "??"},
		},
	}
	rows := Flatten(res)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.Price != "" {
		t.Errorf("unparseable price should be blank, got %q", r.Price)
	}
	if r.RowTotal != "0.00" {
		t.Errorf("RowTotal = %q, want 0.00", r.RowTotal)
	}
	if r.Date != "Unknown" {
		t.Errorf("Date = %q, want Unknown", r.Date)
	}
}

func TestFlattenBuyerAlias(t *testing.T) {
	res := extract.Result{Buyer: "Fallback Buyer, 1 Main St"}
	rows := Flatten(res)
	if rows[0].ShippingAddress != "Fallback Buyer, 1 Main St" {
		t.Errorf("buyer alias not used: %q", rows[0].ShippingAddress)
	}
}

func TestFlattenIdempotent(t *testing.T) {
	res := extract.Result{
		TotalPrice: "12.00",
		Products:   []extract.Product{{Description: "Item", Quantity: "2", Price: "6.00"}},
	}
	first := Flatten(res)
	again := Flatten(extract.Result{
		TotalPrice: first[0].RowTotal,
		Products: []extract.Product{{
			Description: first[0].ProductDescription,
			Quantity:    first[0].Quantity,
			Price:       first[0].Price,
		}},
	})
	if again[0].Price != first[0].Price || again[0].RowTotal != first[0].RowTotal {
		t.Errorf("not idempotent: first %+v, again %+v", first[0], again[0])
	}
}

func TestCanonicalHelpers(t *testing.T) {
	if got := CanonicalTotal("$1,234.5"); got != "1234.50" {
		t.Errorf("CanonicalTotal = %q", got)
	}
	if got := CanonicalTotal("Unknown"); got != "0.00" {
		t.Errorf("CanonicalTotal(Unknown) = %q", got)
	}
	if got := CanonicalPrice("£7"); got != "7.00" {
		t.Errorf("CanonicalPrice = %q", got)
	}
	if got := CanonicalQuantity("12 pcs"); got != "12" {
		t.Errorf("CanonicalQuantity = %q", got)
	}
}
