package service

import "github.com/eliteshop/storefront/internal/model"

type SignUpInput struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginInput accepts either an email or a username as identifier
type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type QuoteInput struct {
	ProductID string `json:"productId" validate:"required"`
	Amount    int    `json:"amount"`   // robux count, ignored for gift cards
	Quantity  int    `json:"quantity"` // number of cards
}

type CheckoutInput struct {
	ProductID      string              `json:"productId"`
	Amount         int                 `json:"amount"`
	Quantity       int                 `json:"quantity"`
	PaymentMethod  model.PaymentMethod `json:"paymentMethod"`
	RobloxUsername string              `json:"robloxUsername" validate:"required,max=64"`
	PhoneNumber    string              `json:"phoneNumber" validate:"required,max=32"`
	TransactionID  string              `json:"transactionId" validate:"required,max=64"`
	Agreed         bool                `json:"agreed"`
}

// ProductInput creates a product when ID is empty and replaces it otherwise
type ProductInput struct {
	ID            string            `json:"id"`
	Type          model.ProductType `json:"type" validate:"omitempty,oneof=robux giftcard"`
	Title         string            `json:"title"`
	Price         float64           `json:"price" validate:"gte=0"`
	OriginalPrice *float64          `json:"originalPrice" validate:"omitempty,gte=0"`
	Amount        model.Amount      `json:"amount"`
	Description   string            `json:"description" validate:"max=2000"`
	Image         string            `json:"image"`
	Active        *bool             `json:"active"`
}

// EventInput describes a promotion as the admin form submits it: a calendar
// date and a wall clock time in the shop's time zone
type EventInput struct {
	Name       string   `json:"name" validate:"required,max=120"`
	Date       string   `json:"date"` // 2006-01-02
	Time       string   `json:"time"` // 15:04
	Discount   float64  `json:"discountPercentage"`
	ProductIDs []string `json:"applicableProductIds" validate:"dive,required"`
}

type SettingsInput struct {
	Name           string   `json:"name" validate:"required,max=120"`
	Description    string   `json:"description" validate:"max=2000"`
	LogoURL        string   `json:"logoUrl"`
	FaviconURL     string   `json:"faviconUrl"`
	CarouselImages []string `json:"carouselImages"`
}
