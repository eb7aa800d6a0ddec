package postgresjournal

import "errors"

var (
	ErrNilDatabaseConnection  = errors.New("database connection must not be nil")
	ErrEmptyTableName         = errors.New("table name must not be empty")
	ErrInvalidTableName       = errors.New("table name must be a plain identifier")
	ErrUnknownAdapter         = errors.New("unknown journal adapter")
	ErrConnectFailed          = errors.New("connecting to the journal database failed")
	ErrBuildingQueryFailed    = errors.New("building journal query failed")
	ErrCreatingTableFailed    = errors.New("creating journal table failed")
	ErrAppendingFailed        = errors.New("appending journal entries failed")
	ErrQueryingFailed         = errors.New("querying journal entries failed")
	ErrScanningRowFailed      = errors.New("scanning journal row failed")
	ErrDecodingMetadataFailed = errors.New("decoding journal metadata failed")
)
