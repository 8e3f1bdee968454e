// Package postgres provides the PostgreSQL implementation of the storage
// interfaces defined in the internal/store package. It handles query
// execution, mapping between domain entities and database rows, and
// translation of driver errors into the store error taxonomy. The package
// also carries the embedded schema migration (a single fixed version).
package postgres
