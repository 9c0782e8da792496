package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldWalletID   = "wallet_id"
	FieldDebtID     = "debt_id"
	FieldTemplateID = "template_id"
	FieldTxType     = "transaction_type"
	FieldAmount     = "amount"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentDebts     = "debts"
	ComponentStreaks   = "streaks"
	ComponentActivity  = "activity"
	ComponentScheduler = "scheduler"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentRateLimit = "rate_limit"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpReverse  = "reverse"
	OpList     = "list"
	OpProcess  = "process"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
