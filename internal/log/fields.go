package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldUserID     = "user_id"
	FieldReceiver   = "receiver"
	FieldAmount     = "amount"
	FieldTxID       = "transaction_id"
	FieldYear       = "year"
	FieldSessionID  = "session_id"
	FieldQueue      = "queue"
	FieldExchange   = "exchange"
	FieldSheetsRef  = "sheets_ref"
)

// Standard component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentSession  = "session"
	ComponentAPI      = "api"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
	ComponentExporter = "exporter"
)
