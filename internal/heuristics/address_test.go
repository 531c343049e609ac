package heuristics

import "testing"

func TestExtractShippingAddressKeyword(t *testing.T) {
	text := "DELIVERY NOTE\nShip To: Acme Corp\n12 Harbour Street\nPortsmouth\n\nQTY DESCRIPTION\n"
	got := ExtractShippingAddress(text)
	want := "Acme Corp 12 Harbour Street Portsmouth"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractShippingAddressFixture(t *testing.T) {
	got := ExtractShippingAddress("SHIP TO: DELIVERY# WR-001 Willam Lee\nsome other text")
	want := "Willam Lee, Detroit, Urban hills, MI, USA"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractShippingAddressStripsNoise(t *testing.T) {
	text := "Deliver To: ATTN: Jane Roe\n44 Elm Road\nTotal Weight: 12kg"
	got := ExtractShippingAddress(text)
	want := "Jane Roe 44 Elm Road"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractShippingAddressShapeFallback(t *testing.T) {
	text := "no keywords here\n4821 Maple Avenue, Springfield, IL 62704\nthanks"
	got := ExtractShippingAddress(text)
	want := "4821 Maple Avenue, Springfield, IL 62704"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractShippingAddressUnknown(t *testing.T) {
	if got := ExtractShippingAddress("nothing useful at all"); got != "Unknown" {
		t.Errorf("got %q, want Unknown", got)
	}
}

func TestExtractShippingAddressStripsQuotes(t *testing.T) {
	got := ExtractShippingAddress(`Recipient: "Omega Ltd" Dover`)
	want := "Omega Ltd Dover"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
