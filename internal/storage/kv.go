// Package storage provides the durable key-value store behind the ledger.
//
// Each ledger is persisted wholesale under a fixed key as a serialized
// sequence of records; the manager name is a plain string. The store knows
// nothing about record shapes — serialization lives with the ledger.
package storage

import "context"

// Persistence keys. The schema carries no version tag.
const (
	KeyRawMaterials  = "rawMaterials"
	KeyProductions   = "productions"
	KeySalesExpenses = "salesExpenses"
	KeyManagerName   = "managerName"
)

// KV is the durable persistence capability. SetMulti writes all pairs as a
// single atomic save: either every key is updated or none is.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	SetMulti(ctx context.Context, pairs map[string]string) error
	Close() error
}
