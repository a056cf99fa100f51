package cashflows

// Cashflow is the invoice record this service reconciles payments against.
// Amounts are minor units; conversion to decimal happens at the store and
// display boundaries only.
type Cashflow struct {
	ID          int64
	Hash        string
	Description string
	Reference   string
	NetAmount   int64
	TaxAmount   int64
	PaidAmount  int64
}

func (c *Cashflow) TotalAmount() int64 {
	return c.NetAmount + c.TaxAmount
}

func (c *Cashflow) OutstandingAmount() int64 {
	return c.TotalAmount() - c.PaidAmount
}

func (c *Cashflow) FullyPaid() bool {
	return c.PaidAmount >= c.TotalAmount()
}
