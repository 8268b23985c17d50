package domain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound indicates the domain has no usable source document: either the
// configured ID is unknown, the file is absent, or its content is empty after
// trimming. An empty document is treated identically to a missing one, since
// an index over it would never return useful context.
var ErrNotFound = errors.New("document not found")

// Store loads raw source text per domain. There is no caching at this layer;
// the expensive step is embedding, and that is memoized one level up.
type Store struct {
	paths map[string]string
}

// NewStore creates a Store resolving domain IDs to their document paths.
func NewStore(domains []Domain) *Store {
	paths := make(map[string]string, len(domains))
	for _, d := range domains {
		paths[d.ID] = d.DocPath
	}
	return &Store{paths: paths}
}

// Load reads the full source document for the given domain as UTF-8 text.
func (s *Store) Load(_ context.Context, domainID string) (string, error) {
	path, ok := s.paths[domainID]
	if !ok {
		return "", fmt.Errorf("%w: unknown domain %q", ErrNotFound, domainID)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("reading document for %q: %w", domainID, err)
	}

	text := string(content)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNotFound, path)
	}
	return text, nil
}
