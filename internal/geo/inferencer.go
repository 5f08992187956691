// Package geo infers a country association from item text by scanning for
// known place phrases.
package geo

import (
	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/globalpulse/internal/data"
	"github.com/jonesrussell/globalpulse/internal/textnorm"
)

// Inferencer matches place phrases against the match form of item text
// using a single Aho-Corasick pass. Phrases are padded with boundary
// spaces before compilation, so a hit always falls on word boundaries.
type Inferencer struct {
	matcher *ahocorasick.Matcher
	table   []data.CountryKeyword
}

// NewInferencer builds an inferencer from the given phrase table. Table
// order is the tie-break: when a text matches several phrases, the entry
// with the lowest index wins. Pass data.CountryKeywords for the standard
// table.
func NewInferencer(table []data.CountryKeyword) *Inferencer {
	inf := &Inferencer{table: table}
	if len(table) == 0 {
		return inf
	}
	padded := make([]string, len(table))
	for i, kw := range table {
		padded[i] = " " + kw.Phrase + " "
	}
	inf.matcher = ahocorasick.NewStringMatcher(padded)
	return inf
}

// Infer returns the ISO 3166-1 alpha-2 code for the first phrase (in table
// definition order) found in the text, or ok=false when nothing matches.
// Absence is a normal state, not an error.
func (inf *Inferencer) Infer(text string) (string, bool) {
	if inf.matcher == nil {
		return "", false
	}

	hits := inf.matcher.Match([]byte(textnorm.MatchForm(text)))
	if len(hits) == 0 {
		return "", false
	}

	best := hits[0]
	for _, h := range hits[1:] {
		if h < best {
			best = h
		}
	}
	return inf.table[best].Code, true
}
