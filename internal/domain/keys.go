package domain

// KeyPrefix namespaces every key the service owns in a shared Redis keyspace.
const KeyPrefix = "catalog:"
