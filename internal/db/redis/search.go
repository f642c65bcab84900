package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/catalogsearch/internal/db"
)

// maxFuzzyDistance is the largest Levenshtein distance the query engine accepts.
const maxFuzzyDistance = 3

// FuzzySearch runs a fuzzy TEXT match via FT.SEARCH against the collection's
// JSON index. Hits come back sorted by score descending.
func (s *Store) FuzzySearch(ctx context.Context, q *db.FuzzyQuery) (*db.SearchResult, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if q.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if q.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative")
	}

	queryStr := buildFuzzyQuery(q.Path, q.Text, q.MaxEdits)
	if queryStr == "" {
		return &db.SearchResult{}, nil
	}

	limit := q.Limit
	if limit == 0 || limit > s.candidateCap {
		limit = s.candidateCap
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(
		s.keys.IndexName(q.Collection), queryStr,
		"WITHSCORES",
		"LIMIT", "0", strconv.Itoa(limit),
		"DIALECT", "2",
	).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return s.parseFuzzyResult(q.Collection, raw)
}

// Lookup resolves documents by id with pipelined JSON.GET.
func (s *Store) Lookup(ctx context.Context, collection string, ids []string) (map[string][]byte, error) {
	if len(ids) == 0 {
		return map[string][]byte{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.keys.DocKey(collection, id)
	}

	docs, err := s.jsonGetMulti(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(ids))
	for i, doc := range docs {
		if doc != nil {
			out[ids[i]] = doc
		}
	}
	return out, nil
}

// --- Result parsing ---

// errMalformedReply marks a search or lookup reply the store cannot decode.
var errMalformedReply = errors.New("malformed reply")

// parseFuzzyResult decodes an FT.SEARCH WITHSCORES reply. Any hit that cannot
// be decoded fails the whole search: a dropped hit would shift the best score.
func (s *Store) parseFuzzyResult(collection string, raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("parse total: %w", err)}
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}
	// 3-stride: [total, key1, score1, fields1, key2, score2, fields2, ...]
	if (len(raw)-1)%3 != 0 {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("%w: %d elements after total", errMalformedReply, len(raw)-1)}
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/3)
	for i := 1; i+2 < len(raw); i += 3 {
		entry, err := s.parseHit(collection, raw[i], raw[i+1], raw[i+2])
		if err != nil {
			return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("parse hit %d: %w", len(entries), err)}
		}
		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func (s *Store) parseHit(collection string, keyMsg, scoreMsg, fieldsMsg rueidis.RedisMessage) (db.SearchEntry, error) {
	key, err := keyMsg.ToString()
	if err != nil {
		return db.SearchEntry{}, fmt.Errorf("key: %w", err)
	}

	scoreStr, err := scoreMsg.ToString()
	if err != nil {
		return db.SearchEntry{}, fmt.Errorf("score of %s: %w", key, err)
	}
	score, err := strconv.ParseFloat(scoreStr, 64)
	if err != nil {
		return db.SearchEntry{}, fmt.Errorf("score of %s: %w", key, err)
	}

	fields, err := fieldsMsg.ToArray()
	if err != nil {
		return db.SearchEntry{}, fmt.Errorf("fields of %s: %w", key, err)
	}
	doc, err := rootDocument(fields)
	if err != nil {
		return db.SearchEntry{}, fmt.Errorf("document %s: %w", key, err)
	}

	return db.SearchEntry{ID: s.keys.DocID(collection, key), Score: score, Doc: doc}, nil
}

// rootDocument extracts the "$" field a JSON index returns for each hit.
func rootDocument(fields []rueidis.RedisMessage) ([]byte, error) {
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil || name != "$" {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			return nil, err
		}
		return unwrapRootPath(value)
	}
	return nil, fmt.Errorf("%w: no $ field", errMalformedReply)
}

// unwrapRootPath returns the document behind a "$" path reply. JSON.GET with
// a JSONPath wraps matches in an array; FT.SEARCH under DIALECT 2 does not.
func unwrapRootPath(raw string) ([]byte, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", errMalformedReply)
	}
	if data[0] != '[' {
		if !json.Valid(data) {
			return nil, fmt.Errorf("%w: invalid JSON", errMalformedReply)
		}
		return data, nil
	}
	var matches []json.RawMessage
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedReply, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no root match", errMalformedReply)
	}
	return matches[0], nil
}

// --- Query building ---

// buildFuzzyQuery turns free text into a union of fuzzy terms on one field:
// "abbey road" -> @name:(%%abbey%%|%%road%%). Returns "" when the text holds
// no searchable term.
func buildFuzzyQuery(field, text string, maxEdits int) string {
	terms := tokenize(text)
	if len(terms) == 0 {
		return ""
	}

	maxEdits = min(max(maxEdits, 0), maxFuzzyDistance)
	pad := strings.Repeat("%", maxEdits)

	parts := make([]string, len(terms))
	for i, term := range terms {
		parts[i] = pad + term + pad
	}
	return fmt.Sprintf("@%s:(%s)", field, strings.Join(parts, "|"))
}

// tokenize splits text on anything that is not a letter or digit, so query
// syntax characters never reach the engine.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	terms := fields[:0]
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}
