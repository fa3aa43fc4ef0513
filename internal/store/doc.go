// Package store defines the persistence interfaces used by the service
// layer, together with the sentinel errors every implementation must
// return. Implementations live in internal/platform.
package store
