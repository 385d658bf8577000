package store

import (
	"time"

	"github.com/eliteshop/storefront/internal/common/config"
	"github.com/eliteshop/storefront/internal/model"
)

const (
	defaultAdminID       = "ADMIN-CORE-001"
	defaultAdminUsername = "samin080g"
	defaultAdminEmail    = "saminsingdho@gmail.com"

	ImageRobux     = "https://lh3.googleusercontent.com/d/1JKYFlAaX6JLuqi6VHPAUNhOI7cCrvQQi=s0"
	ImageGiftCards = "https://lh3.googleusercontent.com/d/1kvQuB_u0Grx58B0QGrwCQJUAwtcaI9bQ=s0"
	imageLogo      = "https://lh3.googleusercontent.com/d/19j3CzSflC7AUrmiWimrzTNVDhJvFIQs9=s0"
)

// DefaultProducts returns the catalog seeded into an empty store
func DefaultProducts() []model.Product {
	return []model.Product{
		{
			ID:          "robux-custom",
			Type:        model.ProductRobux,
			Title:       "Robux",
			Price:       3.0,
			Amount:      model.NumberAmount(1),
			Description: "Direct Robux transfer to your account.",
			Image:       ImageRobux,
			Active:      true,
		},
		{
			ID:          "gc-demo",
			Type:        model.ProductGiftCard,
			Title:       "$10 Roblox Gift Card",
			Price:       1200,
			Amount:      model.NumberAmount(10),
			Description: "Redeem for 800 Robux + Exclusive Virtual Item",
			Image:       ImageGiftCards,
			Active:      true,
		},
	}
}

// DefaultSettings returns the branding seeded into an empty store
func DefaultSettings() model.SiteSettings {
	return model.SiteSettings{
		Name:        "Elite Robux Shop",
		Description: "Elite Robux Shop is a trusted Bangladesh-based store for buying Robux and Roblox Gift Cards easily and securely through Roblox Groups.",
		LogoURL:     imageLogo,
		FaviconURL:  imageLogo,
		CarouselImages: []string{
			"https://lh3.googleusercontent.com/d/1eLp1_Ks1gnQiupH6lCaY09PlK4UEO0PX=s0",
			"https://lh3.googleusercontent.com/d/1DHCWUS4cbyT4oEsIVwS3JqdCvFocAz4z=s0",
			"https://lh3.googleusercontent.com/d/1KHZzxgmxbPwx-jfooglpKwUBOQp20eRy=s0",
		},
		Events: []model.Event{},
	}
}

func mainAdmin(id string, cfg config.MainAdminConfig, hash string, now time.Time) model.User {
	return model.User{
		ID:           id,
		Username:     cfg.Username,
		Email:        cfg.Email,
		PasswordHash: hash,
		Role:         model.RoleMainAdmin,
		CreatedAt:    now.UnixMilli(),
	}
}
