package model

type ProductType string

const (
	ProductRobux    ProductType = "robux"
	ProductGiftCard ProductType = "giftcard"
)

func (t ProductType) Valid() bool {
	return t == ProductRobux || t == ProductGiftCard
}

type Product struct {
	ID            string      `json:"id"`
	Type          ProductType `json:"type"`
	Title         string      `json:"title"`
	Price         float64     `json:"price"`                   // base unit price in BDT
	OriginalPrice *float64    `json:"originalPrice,omitempty"` // strike-through reference only
	Amount        Amount      `json:"amount"`
	Description   string      `json:"description"`
	Image         string      `json:"image"`
	Active        bool        `json:"active"`
}
