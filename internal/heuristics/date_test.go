package heuristics

import "testing"

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"fixture delivery date", "HEADER\nDELIVERY DATE 15/07/2022\nbody", "15/07/2022"},
		{"fixture despatch date", "Despatch Date September 6, 2013", "September 6, 2013"},
		{"labeled delivery date", "DELIVERY DATE 03/11/2021", "03/11/2021"},
		{"labeled despatch month name", "Despatch Date March 4, 2020", "March 4, 2020"},
		{"generic date label", "Order Date: 2021-06-09\n", "2021-06-09"},
		{"bare numeric slash", "delivered on 12/04/23 by courier", "12/04/23"},
		{"bare iso", "ref 88 txn 2022-01-31 end", "2022-01-31"},
		{"month name form", "Signed 9 Feb 2019", "9 Feb 2019"},
		{"nothing", "no dates in here", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDate(tt.text); got != tt.want {
				t.Errorf("ExtractDate(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractDateStripsPunctuation(t *testing.T) {
	got := ExtractDate("Date: 15/07/2022;")
	if got != "15/07/2022" {
		t.Errorf("got %q", got)
	}
}
