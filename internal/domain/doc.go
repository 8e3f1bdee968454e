// Package domain contains the core business entities and domain logic of the
// application, independent of any specific storage or delivery mechanism.
package domain
