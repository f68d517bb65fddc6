package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"ai-context-be/internal/entity"
	"ai-context-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Per-keyword reference lists are capped; queries return at most maxResults.
const (
	maxRefsPerKeyword = 20
	maxResults        = 10
	minKeywordLen     = 3
)

// SearchResult is one scored hit from a keyword query.
type SearchResult struct {
	Ref             entity.SearchRef `json:"ref"`
	Relevance       float64          `json:"relevance"`
	MatchedKeywords []string         `json:"matched_keywords"`
}

// SearchIndex maintains the per-user keyword -> reference index in the fast
// store: one hash per user, one field per keyword. The whole index shares a
// single TTL, refreshed on every write.
type SearchIndex struct {
	fast   FastStore
	logger logger.ILogger
}

func NewSearchIndex(fast FastStore, log logger.ILogger) *SearchIndex {
	return &SearchIndex{
		fast:   fast,
		logger: log,
	}
}

// Update indexes ref under every keyword: existing entry with the same id is
// dropped, the new ref is prepended, the list capped.
func (s *SearchIndex) Update(ctx context.Context, userId uuid.UUID, keywords []string, ref entity.SearchRef) error {
	key := searchIndexKey(userId)

	for _, raw := range keywords {
		keyword := strings.ToLower(strings.TrimSpace(raw))
		if keyword == "" {
			continue
		}

		refs, err := s.loadRefs(ctx, key, keyword)
		if err != nil {
			return err
		}

		updated := make([]entity.SearchRef, 0, len(refs)+1)
		updated = append(updated, ref)
		for _, existing := range refs {
			if existing.Id == ref.Id {
				continue
			}
			updated = append(updated, existing)
		}
		if len(updated) > maxRefsPerKeyword {
			updated = updated[:maxRefsPerKeyword]
		}

		data, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		if err := s.fast.HSet(ctx, key, keyword, string(data)); err != nil {
			return err
		}
	}

	return s.fast.Expire(ctx, key, RetentionIndex)
}

// Query scores references by how many of the query's keywords they match.
// Relevance = matchedKeywords / totalQueryKeywords; ties broken by timestamp
// desc. A query with no keyword >= 3 chars returns an empty result set.
func (s *SearchIndex) Query(ctx context.Context, userId uuid.UUID, query string) ([]SearchResult, error) {
	var keywords []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) >= minKeywordLen {
			keywords = append(keywords, w)
		}
	}
	if len(keywords) == 0 {
		return []SearchResult{}, nil
	}

	key := searchIndexKey(userId)

	type accumulator struct {
		ref     entity.SearchRef
		matched []string
	}
	hits := make(map[uuid.UUID]*accumulator)

	for _, keyword := range keywords {
		refs, err := s.loadRefs(ctx, key, keyword)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			acc, ok := hits[ref.Id]
			if !ok {
				acc = &accumulator{ref: ref}
				hits[ref.Id] = acc
			}
			acc.matched = append(acc.matched, keyword)
		}
	}

	results := make([]SearchResult, 0, len(hits))
	total := float64(len(keywords))
	for _, acc := range hits {
		results = append(results, SearchResult{
			Ref:             acc.ref,
			Relevance:       float64(len(acc.matched)) / total,
			MatchedKeywords: acc.matched,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Relevance != results[j].Relevance {
			return results[i].Relevance > results[j].Relevance
		}
		return results[i].Ref.Timestamp.After(results[j].Ref.Timestamp)
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// Wipe removes a user's entire index. Used before a rebuild.
func (s *SearchIndex) Wipe(ctx context.Context, userId uuid.UUID) error {
	return s.fast.Delete(ctx, searchIndexKey(userId))
}

func (s *SearchIndex) loadRefs(ctx context.Context, key, keyword string) ([]entity.SearchRef, error) {
	raw, found, err := s.fast.HGet(ctx, key, keyword)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var refs []entity.SearchRef
	if err := json.Unmarshal([]byte(raw), &refs); err != nil {
		// A corrupt field is dropped, not fatal; the rebuild path recovers it.
		s.logger.Warn("SearchIndex", "Corrupt index field, ignoring", map[string]interface{}{
			"keyword": keyword,
			"error":   err.Error(),
		})
		return nil, nil
	}
	return refs, nil
}
