package main

import (
	"log"

	"github.com/lib/pq"

	"service-marketplace-server/database"
	"service-marketplace-server/models"
)

// seedCategories is the starter catalog for fresh deployments
func seedCategories() []models.ServiceCategory {
	return []models.ServiceCategory{
		{
			ID:      "repairs",
			Name:    "Home Repairs",
			Image:   "https://images.unsplash.com/photo-1503387762-592deb58ef4e?auto=format&fit=crop&w=800&q=80",
			Summary: "Fix leaky taps, appliances, and electrical issues",
		},
		{
			ID:      "cleaning",
			Name:    "Cleaning",
			Image:   "https://images.unsplash.com/photo-1582719478250-c89cae4dc85b?auto=format&fit=crop&w=800&q=80",
			Summary: "Deep cleaning, moving out prep, and office refreshes",
		},
		{
			ID:      "moving",
			Name:    "Moving & Logistics",
			Image:   "https://images.unsplash.com/photo-1541417904950-b855846fe074?auto=format&fit=crop&w=800&q=80",
			Summary: "Haulage trucks, movers, and item pickup/delivery",
		},
		{
			ID:      "beauty",
			Name:    "Beauty & Wellness",
			Image:   "https://images.unsplash.com/photo-1506617420156-8e4536971650?auto=format&fit=crop&w=800&q=80",
			Summary: "Hair, nails, spa-at-home, and personal care",
		},
	}
}

// seedProviders is the starter provider directory for fresh deployments
func seedProviders() []models.ServiceProvider {
	return []models.ServiceProvider{
		{
			ID:            "prov-1",
			Name:          "Chidinma Okafor",
			Avatar:        "https://images.unsplash.com/photo-1524504388940-b1c1722653e1?auto=format&fit=crop&w=400&q=80",
			Rating:        4.9,
			JobsCompleted: 182,
			Services:      pq.StringArray{"cleaning", "repairs"},
			Bio:           "Facility care specialist with a reliable crew for homes and offices.",
			Location:      "Lekki Phase 1",
			Contact:       models.Contact{Email: "chidinma@cleanquick.ng", Phone: "+234 801 222 3311"},
		},
		{
			ID:            "prov-2",
			Name:          "FixIt Brothers",
			Avatar:        "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?auto=format&fit=crop&w=400&q=80",
			Rating:        4.7,
			JobsCompleted: 96,
			Services:      pq.StringArray{"repairs"},
			Bio:           "Electrical and appliance repair team with 24/7 emergency cover.",
			Location:      "Victoria Island",
			Contact:       models.Contact{Email: "support@fixitbrothers.ng", Phone: "+234 813 445 0909"},
		},
		{
			ID:            "prov-3",
			Name:          "MoveFast Logistics",
			Avatar:        "https://images.unsplash.com/photo-1489515217757-5fd1be406fef?auto=format&fit=crop&w=400&q=80",
			Rating:        4.8,
			JobsCompleted: 141,
			Services:      pq.StringArray{"moving"},
			Bio:           "Mini trucks, dispatch bikes, and dedicated movers across Lagos.",
			Location:      "Ikeja",
			Contact:       models.Contact{Email: "ops@movefast.ng", Phone: "+234 814 880 4433"},
		},
		{
			ID:            "prov-4",
			Name:          "Glow & Go",
			Avatar:        "https://images.unsplash.com/photo-1544723795-3fb6469f5b39?auto=format&fit=crop&w=400&q=80",
			Rating:        4.6,
			JobsCompleted: 72,
			Services:      pq.StringArray{"beauty"},
			Bio:           "On-demand beauty pros for braids, nails, spa, and make-up.",
			Location:      "Yaba",
			Contact:       models.Contact{Email: "bookings@glowgo.ng", Phone: "+234 810 661 5522"},
		},
	}
}

// seedMarketplace writes the starter catalog and providers to the database.
// Only called when the categories table is empty.
func seedMarketplace() ([]models.ServiceCategory, []models.ServiceProvider, error) {
	categories := seedCategories()
	providers := seedProviders()

	for i := range categories {
		if err := database.DB.Create(&categories[i]).Error; err != nil {
			return nil, nil, err
		}
	}
	for i := range providers {
		if err := database.DB.Create(&providers[i]).Error; err != nil {
			return nil, nil, err
		}
	}

	log.Printf("🌱 Seeded %d categories and %d providers", len(categories), len(providers))
	return categories, providers, nil
}
