package logging

// Standardized field names for structured logging.
// Keep these stable: log pipelines filter on them.
const (
	FieldUserID        = "user_id"
	FieldRecipient     = "recipient"
	FieldAmount        = "amount"
	FieldBalance       = "balance"
	FieldCategory      = "category"
	FieldKind          = "kind"
	FieldTransactionID = "transaction_id"
	FieldSessionID     = "session_id"
	FieldOperation     = "operation"
	FieldBackend       = "backend"
	FieldFile          = "file_path"
	FieldReason        = "reason"
	FieldError         = "error"
	FieldCount         = "count"
	FieldDuration      = "duration_ms"
	FieldExchange      = "exchange"
)
