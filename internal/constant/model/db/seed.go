package db

import (
	"errors"

	"gorm.io/gorm"
)

// Seed inserts the default users and products when they are absent, so a
// fresh database can take orders immediately.
func Seed(db *gorm.DB) error {
	users := []User{
		{Email: "dev@tucanshop.com", FullName: "Tucanshop Developer"},
		{Email: "cliente@example.com", FullName: "Common Client"},
	}

	for _, user := range users {
		var existing User
		err := db.Where("email = ?", user.Email).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&user).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}

	products := []Product{
		{
			Name:        "Keychron K2 Mechanical Keyboard",
			Description: "75% layout wireless mechanical keyboard, Gateron Brown switches.",
			PriceUsd:    9900,
			Category:    "Peripherals",
		},
		{
			Name:        "Dell UltraSharp 27\" 4K",
			Description: "USB-C Hub monitor, 4K UHD IPS, 99% sRGB coverage.",
			PriceUsd:    45000,
			Category:    "Monitors",
		},
		{
			Name:        "Herman Miller Aeron",
			Description: "Legendary ergonomic chair, Size B, graphite finish.",
			PriceUsd:    120000,
			Category:    "Furniture",
		},
	}

	for _, product := range products {
		var existing Product
		err := db.Where("name = ?", product.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&product).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}

	return nil
}
