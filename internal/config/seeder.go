package config

import (
	"log"
	"time"

	"loyallocal/internal/adapters/persistence/models"
	"loyallocal/internal/pkg/password"

	"gorm.io/gorm"
)

// SeedDemoData inserts demo businesses and visit histories for local
// development. Idempotent: runs only when the businesses table is empty.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Business{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⚠️ Demo seed skipped: businesses already exist")
		return nil
	}

	hashed, err := password.Hash("demo1234")
	if err != nil {
		return err
	}

	businesses := []models.Business{
		{
			Name:                     "Downtown Hair Studio",
			Type:                     "salon",
			Address:                  "12 Allen Avenue, Ikeja, Lagos",
			Email:                    "hello@downtownhair.ng",
			Password:                 hashed,
			LoyaltyVisitsRequired:    5,
			LoyaltyRewardDescription: "50% off next haircut",
			SMSNotificationsEnabled:  true,
			IsActive:                 true,
		},
		{
			Name:                     "Corner Café",
			Type:                     "cafe",
			Address:                  "3 Admiralty Way, Lekki, Lagos",
			Email:                    "team@cornercafe.ng",
			Password:                 hashed,
			LoyaltyVisitsRequired:    10,
			LoyaltyRewardDescription: "Free coffee and pastry",
			SMSNotificationsEnabled:  false,
			IsActive:                 true,
		},
	}

	if err := db.Create(&businesses).Error; err != nil {
		return err
	}

	now := time.Now()
	seedVisits := func(businessID uint, phone, name string, unredeemed, redeemed int) []models.Visit {
		var visits []models.Visit
		daysAgo := unredeemed + redeemed
		for i := 0; i < redeemed; i++ {
			visits = append(visits, models.Visit{
				BusinessID:          businessID,
				CustomerPhoneNumber: phone,
				CustomerName:        name,
				IsRedeemedForReward: true,
				CreatedAt:           now.AddDate(0, 0, -daysAgo),
			})
			daysAgo--
		}
		for i := 0; i < unredeemed; i++ {
			visits = append(visits, models.Visit{
				BusinessID:          businessID,
				CustomerPhoneNumber: phone,
				CustomerName:        name,
				CreatedAt:           now.AddDate(0, 0, -daysAgo),
			})
			daysAgo--
		}
		return visits
	}

	var visits []models.Visit
	visits = append(visits, seedVisits(businesses[0].ID, "+2348012345678", "Adaeze Obi", 3, 5)...)
	// Same customer stored under the legacy local format at the café
	visits = append(visits, seedVisits(businesses[1].ID, "08012345678", "Adaeze Obi", 12, 0)...)
	visits = append(visits, seedVisits(businesses[0].ID, "+2348098765432", "Tunde Bakare", 4, 0)...)

	if err := db.Create(&visits).Error; err != nil {
		return err
	}

	log.Printf("✅ Demo data seeded: %d businesses, %d visits", len(businesses), len(visits))
	return nil
}
