package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldID         = "id"
	FieldActionType = "action_type"
	FieldTimestamp  = "timestamp"
	FieldAmount     = "amount"
	FieldCategory   = "category"
	FieldOrigin     = "origin"
	FieldExportKind = "export_kind"
	FieldFilename   = "filename"
	FieldRowCount   = "row_count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentStorage = "storage"
	ComponentState   = "state"
	ComponentTUI     = "tui"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpExport   = "export"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
