package common

const (
	PaymentStateInitialized = "initialized"
	PaymentStateSettled     = "settled"

	SessionStatusPending = "pending"
	SessionStatusPaid    = "paid"
	SessionStatusFailed  = "failed"

	// The only gateway event type that triggers reconciliation.
	// All other event types are acknowledged without action.
	EventCheckoutSessionCompleted = "checkout.session.completed"

	MetadataKeyCashflowID = "cashflowId"
	MetadataKeyHash       = "hash"
	MetadataKeyAmount     = "amount"
)
