package gateway

// CheckoutSession is the gateway-hosted payment attempt. The metadata map is
// attached at creation time and echoed back unmodified by the gateway: it is
// the only channel through which reconciliation recovers which cashflow a
// payment belongs to.
type CheckoutSession struct {
	ID               string
	URL              string
	Status           string
	AmountTotal      int64
	PaymentReference string
	Metadata         map[string]string
}

// Event is a normalized webhook event. Session is populated for
// checkout-session-completed events only.
type Event struct {
	Type    string
	Session *CheckoutSession
}

type CreateSessionParams struct {
	Hash        string
	CashflowID  int64
	Amount      int64 // minor units
	Description string
	SuccessURL  string
	CancelURL   string
}
