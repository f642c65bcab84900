package db

import "strings"

// Keyspace derives Redis key and index names for catalog collections.
// Documents of collection "Album" live under "<prefix>album:<id>" and are
// indexed by "<prefix>album:idx".
type Keyspace struct {
	Prefix string
}

// CollectionPrefix returns the key prefix shared by a collection's documents.
func (k Keyspace) CollectionPrefix(collection string) string {
	return k.Prefix + strings.ToLower(collection) + ":"
}

// DocKey returns the key of a single document.
func (k Keyspace) DocKey(collection, id string) string {
	return k.CollectionPrefix(collection) + id
}

// IndexName returns the FT index name of a collection.
func (k Keyspace) IndexName(collection string) string {
	return k.CollectionPrefix(collection) + "idx"
}

// DocID strips the collection prefix from a document key.
func (k Keyspace) DocID(collection, key string) string {
	return strings.TrimPrefix(key, k.CollectionPrefix(collection))
}
