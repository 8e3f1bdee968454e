// Package mocks provides test doubles for the interfaces defined in the
// internal/store package. The in-memory task store behaves like the real
// postgres-backed store (ID assignment, replace-on-conflict, idempotent
// delete, ID-ordered listing) so service tests can exercise the full
// contract without a database.
package mocks
