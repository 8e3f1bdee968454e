// Package service contains the application services that orchestrate domain
// entities, persistence, and change notification. Services are the surface
// the presentation layer consumes; they own no storage details themselves.
package service
