package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kailas-cloud/catalogsearch/internal/db"
)

// scoreField receives the Atlas relevance score on every hit.
const scoreField = "score"

// maxFuzzyEdits is the largest maxEdits Atlas Search accepts.
const maxFuzzyEdits = 2

// FuzzySearch runs a $search text stage with fuzzy matching. Atlas returns
// hits sorted by searchScore descending.
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

	limit := q.Limit
	if limit == 0 || limit > s.candidateCap {
		limit = s.candidateCap
	}

	pipeline := buildSearchPipeline(s.searchIndex, q.Path, q.Text, q.MaxEdits, limit)
	cur, err := s.database.Collection(q.Collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	defer func() { _ = cur.Close(ctx) }()

	entries := make([]db.SearchEntry, 0, limit)
	for cur.Next(ctx) {
		entry, err := decodeEntry(cur.Current)
		if err != nil {
			return nil, &db.Error{Op: db.OpAggregate, Err: err}
		}
		entries = append(entries, entry)
	}
	if err := cur.Err(); err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

// Lookup resolves documents by _id. Hex ids are matched as ObjectIDs.
func (s *Store) Lookup(ctx context.Context, collection string, ids []string) (map[string][]byte, error) {
	if len(ids) == 0 {
		return map[string][]byte{}, nil
	}

	cur, err := s.database.Collection(collection).Find(ctx, lookupFilter(ids))
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	defer func() { _ = cur.Close(ctx) }()

	out := make(map[string][]byte, len(ids))
	for cur.Next(ctx) {
		entry, err := decodeEntry(cur.Current)
		if err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: err}
		}
		out[entry.ID] = entry.Doc
	}
	if err := cur.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	return out, nil
}

func buildSearchPipeline(index, path, text string, maxEdits, limit int) mongo.Pipeline {
	textStage := bson.D{
		{Key: "query", Value: text},
		{Key: "path", Value: path},
	}
	if maxEdits > 0 {
		textStage = append(textStage, bson.E{
			Key:   "fuzzy",
			Value: bson.D{{Key: "maxEdits", Value: min(maxEdits, maxFuzzyEdits)}},
		})
	}

	return mongo.Pipeline{
		{{Key: "$search", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "text", Value: textStage},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: scoreField, Value: bson.D{{Key: "$meta", Value: "searchScore"}}},
		}}},
		{{Key: "$limit", Value: limit}},
	}
}

func lookupFilter(ids []string) bson.D {
	values := make(bson.A, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			values = append(values, oid)
			continue
		}
		values = append(values, id)
	}
	return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: values}}}}
}

// decodeEntry renders a BSON document as relaxed extended JSON and extracts
// its id and, when present, its search score.
func decodeEntry(raw bson.Raw) (db.SearchEntry, error) {
	id, err := documentID(raw)
	if err != nil {
		return db.SearchEntry{}, err
	}

	var score float64
	if v, err := raw.LookupErr(scoreField); err == nil {
		if f, ok := v.DoubleOK(); ok {
			score = f
		}
	}

	doc, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return db.SearchEntry{}, fmt.Errorf("render document %s: %w", id, err)
	}

	return db.SearchEntry{ID: id, Score: score, Doc: doc}, nil
}

func documentID(raw bson.Raw) (string, error) {
	v, err := raw.LookupErr("_id")
	if err != nil {
		return "", errors.New("document has no _id")
	}
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex(), nil
	}
	if str, ok := v.StringValueOK(); ok {
		return str, nil
	}
	return "", fmt.Errorf("unsupported _id type %s", v.Type)
}
