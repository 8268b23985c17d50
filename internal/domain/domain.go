// Package domain defines the fixed knowledge areas the engine can retrieve
// from, and maps free-text queries onto them.
//
// The domain set is small, closed, and defined at startup. Each domain owns
// one source document and an ordered list of trigger keywords.
package domain

import (
	"path/filepath"
	"strings"
)

// Domain is a fixed, named knowledge area.
type Domain struct {
	ID       string   // Stable identifier, e.g. "peata"
	DocPath  string   // Path to the source document
	Keywords []string // Trigger keywords/phrases, matched as lowercase substrings
}

// Defaults returns the configured domain set for the portfolio, with source
// documents resolved under docsDir.
//
// Order matters: classification is first-match, so domains with more specific
// keyword sets must precede more general ones.
func Defaults(docsDir string) []Domain {
	return []Domain{
		{
			ID:       "peata",
			DocPath:  filepath.Join(docsDir, "peata.md"),
			Keywords: []string{"peata", "pet reunification", "lost pet"},
		},
		{
			ID:       "relic",
			DocPath:  filepath.Join(docsDir, "relic.md"),
			Keywords: []string{"relic", "archaeolog"},
		},
		{
			ID:       "astro_archive",
			DocPath:  filepath.Join(docsDir, "astro_archive.md"),
			Keywords: []string{"astro archive", "astro-archive", "astronomy archive"},
		},
		{
			ID:       "planetrics",
			DocPath:  filepath.Join(docsDir, "planetrics.md"),
			Keywords: []string{"planetrics", "exoplanet"},
		},
		{
			ID:       "stargate",
			DocPath:  filepath.Join(docsDir, "stargate.md"),
			Keywords: []string{"stargate", "bobot"},
		},
		{
			ID:       "king_of_meat",
			DocPath:  filepath.Join(docsDir, "king_of_meat.md"),
			Keywords: []string{"king of meat", "qa testing"},
		},
		{
			ID:       "knowhax",
			DocPath:  filepath.Join(docsDir, "knowhax.md"),
			Keywords: []string{"knowhax", "hackathon"},
		},
		{
			ID:       "sesa",
			DocPath:  filepath.Join(docsDir, "sesa.md"),
			Keywords: []string{"sesa", "security proposal"},
		},
	}
}

// Classifier maps a query to at most one domain by keyword matching.
type Classifier struct {
	domains []Domain
}

// NewClassifier creates a Classifier over the given domains. The slice is
// used as-is; callers must not mutate it afterwards.
func NewClassifier(domains []Domain) *Classifier {
	return &Classifier{domains: domains}
}

// Classify returns the ID of the first domain whose keywords occur in the
// query, and false if no domain matches. Matching is case-insensitive
// substring search with no ranking: first match wins, in configuration order.
func (c *Classifier) Classify(query string) (string, bool) {
	q := strings.ToLower(query)
	for _, d := range c.domains {
		for _, kw := range d.Keywords {
			if strings.Contains(q, kw) {
				return d.ID, true
			}
		}
	}
	return "", false
}

// Domains returns the configured domain set.
func (c *Classifier) Domains() []Domain {
	return c.domains
}
