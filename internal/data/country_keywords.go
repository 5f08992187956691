// Package data holds static lookup tables used by the enrichment pipeline.
package data

// CountryKeyword associates a lowercase place phrase with an ISO 3166-1
// alpha-2 country code.
type CountryKeyword struct {
	Phrase string
	Code   string
}

// CountryKeywords is the place-phrase table scanned by the country
// inferencer. Slice order is significant: when a text matches several
// phrases, the earliest entry wins. Phrases must already be in match form
// (lowercase ASCII, single internal spaces).
var CountryKeywords = []CountryKeyword{
	// United States
	{Phrase: "united states", Code: "US"},
	{Phrase: "usa", Code: "US"},
	{Phrase: "america", Code: "US"},
	{Phrase: "new york", Code: "US"},
	{Phrase: "los angeles", Code: "US"},
	{Phrase: "washington", Code: "US"},
	// Canada
	{Phrase: "canada", Code: "CA"},
	{Phrase: "toronto", Code: "CA"},
	{Phrase: "vancouver", Code: "CA"},
	{Phrase: "montreal", Code: "CA"},
	// United Kingdom
	{Phrase: "united kingdom", Code: "GB"},
	{Phrase: "uk", Code: "GB"},
	{Phrase: "england", Code: "GB"},
	{Phrase: "london", Code: "GB"},
	{Phrase: "scotland", Code: "GB"},
	{Phrase: "wales", Code: "GB"},
	// Germany
	{Phrase: "germany", Code: "DE"},
	{Phrase: "berlin", Code: "DE"},
	{Phrase: "munich", Code: "DE"},
	{Phrase: "frankfurt", Code: "DE"},
	// France
	{Phrase: "france", Code: "FR"},
	{Phrase: "paris", Code: "FR"},
	{Phrase: "lyon", Code: "FR"},
	// Spain
	{Phrase: "spain", Code: "ES"},
	{Phrase: "madrid", Code: "ES"},
	{Phrase: "barcelona", Code: "ES"},
	// Italy
	{Phrase: "italy", Code: "IT"},
	{Phrase: "rome", Code: "IT"},
	{Phrase: "milan", Code: "IT"},
	// India
	{Phrase: "india", Code: "IN"},
	{Phrase: "delhi", Code: "IN"},
	{Phrase: "mumbai", Code: "IN"},
	{Phrase: "bangalore", Code: "IN"},
	// China
	{Phrase: "china", Code: "CN"},
	{Phrase: "beijing", Code: "CN"},
	{Phrase: "shanghai", Code: "CN"},
	{Phrase: "hong kong", Code: "CN"},
	// Japan
	{Phrase: "japan", Code: "JP"},
	{Phrase: "tokyo", Code: "JP"},
	{Phrase: "osaka", Code: "JP"},
	// Australia
	{Phrase: "australia", Code: "AU"},
	{Phrase: "sydney", Code: "AU"},
	{Phrase: "melbourne", Code: "AU"},
	// Brazil
	{Phrase: "brazil", Code: "BR"},
	{Phrase: "rio", Code: "BR"},
	{Phrase: "sao paulo", Code: "BR"},
	// South Africa
	{Phrase: "south africa", Code: "ZA"},
	{Phrase: "johannesburg", Code: "ZA"},
	{Phrase: "cape town", Code: "ZA"},
	// Mexico
	{Phrase: "mexico", Code: "MX"},
	{Phrase: "mexico city", Code: "MX"},
	{Phrase: "guadalajara", Code: "MX"},
}
