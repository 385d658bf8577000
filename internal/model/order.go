package model

type PaymentMethod string

const (
	PaymentNagad PaymentMethod = "Nagad"
	PaymentBKash PaymentMethod = "bKash"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentNagad || p == PaymentBKash
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderDone       OrderStatus = "Done"
	OrderCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists every status in lifecycle order
var OrderStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderDone, OrderCancelled}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderDone, OrderCancelled:
		return true
	}
	return false
}

// IsTerminal is true for Done and Cancelled
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDone || s == OrderCancelled
}

// CanTransition reports whether the lifecycle allows moving from s to next.
// Staying in the same state is always allowed.
//
//	Pending -> Processing -> Done
//	Pending | Processing -> Cancelled
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case OrderPending:
		return next == OrderProcessing || next == OrderCancelled
	case OrderProcessing:
		return next == OrderDone || next == OrderCancelled
	}
	return false
}

// Order snapshots the purchased product; only Status changes after creation
type Order struct {
	ID             string        `json:"id"`
	UserID         string        `json:"userId"`
	RobloxUsername string        `json:"robloxUsername"`
	ProductName    string        `json:"productName"`
	Amount         Amount        `json:"amount"`
	Quantity       int           `json:"quantity"`
	TotalPrice     float64       `json:"totalPrice"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	PhoneNumber    string        `json:"phoneNumber"`
	TransactionID  string        `json:"transactionId"`
	Status         OrderStatus   `json:"status"`
	Timestamp      int64         `json:"timestamp"` // unix millis
}
