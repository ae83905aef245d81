package db

import "errors"

// Storage sentinels shared by the Valkey/Redis, Milvus and Postgres
// adapters. Repositories map them to domain errors.
var (
	ErrKeyNotFound         = errors.New("db: key not found")
	ErrIndexNotFound       = errors.New("db: index not found")
	ErrIndexExists         = errors.New("db: index already exists")
	ErrSearchModuleMissing = errors.New("db: search module not loaded")
)

// Backend names carried by Error.
const (
	BackendValkey   = "valkey"
	BackendMilvus   = "milvus"
	BackendPostgres = "postgres"
)

// Operations. Valkey/Redis ops are command names; Milvus and Postgres
// reuse them where they match and add UPSERT and QUERY.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpListIndexes = "FT._LIST"
	OpSearch      = "FT.SEARCH"
	OpDel         = "DEL"
	OpHSet        = "HSET"
	OpScan        = "SCAN"
	OpGet         = "GET"
	OpSet         = "SET"
	OpUpsert      = "UPSERT"
	OpQuery       = "QUERY"
)

// Error records which backend and operation failed.
type Error struct {
	Backend string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	if e.Backend == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Backend + " " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

