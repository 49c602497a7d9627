package audithook

// Action constants for audit events.
const (
	// Account actions
	ActionAccountCreated = "account.created"

	// Transaction actions
	ActionTransactionRecorded  = "transaction.recorded"
	ActionTransactionConfirmed = "transaction.confirmed"
	ActionConfirmationReset    = "confirmation.reset"
	ActionBalanceApplied       = "balance.applied"
)

// Resource constants for audit events.
const (
	ResourceAccount     = "account"
	ResourceTransaction = "transaction"
)

// Category constants for audit events.
const (
	CategoryAccount    = "account"
	CategoryMovement   = "movement"
	CategorySettlement = "settlement"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
