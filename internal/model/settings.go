package model

// Event is a time-bound promotion stored inside SiteSettings
type Event struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	TargetDate           int64    `json:"targetDate"` // unix millis when the promotion ends
	Active               bool     `json:"active"`
	DiscountPercentage   *float64 `json:"discountPercentage,omitempty"`
	ApplicableProductIDs []string `json:"applicableProductIds"`
}

// Discount returns the discount percentage, zero when unset
func (e Event) Discount() float64 {
	if e.DiscountPercentage == nil {
		return 0
	}
	return *e.DiscountPercentage
}

// AppliesTo reports whether productID is one of the event's products
func (e Event) AppliesTo(productID string) bool {
	for _, id := range e.ApplicableProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

type SiteSettings struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	LogoURL        string   `json:"logoUrl"`
	FaviconURL     string   `json:"faviconUrl"`
	CarouselImages []string `json:"carouselImages"`
	Events         []Event  `json:"events"`
}
