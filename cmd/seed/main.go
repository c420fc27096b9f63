package main

import (
	"log"
	"time"

	"artclub/internal/config"
	"artclub/internal/database"
	"artclub/internal/domain"

	"github.com/google/uuid"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	// AutoMigrate to ensure schema is up to date
	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.Event{},
		&domain.Booking{},
		&domain.Payment{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// ================== EVENTS ==================
	log.Println("Creating sample events...")

	nextMonth := time.Now().AddDate(0, 1, 0).Truncate(time.Hour)

	events := []domain.Event{
		{
			ID:              uuid.NewString(),
			Title:           "Celestia: Open-Air Movie Night",
			Description:     "An evening under the stars with a classic film, snacks and the club photobooth.",
			Price:           300,
			PhotoboothPrice: 200,
			Capacity:        250,
			StartsAt:        nextMonth.Add(18 * time.Hour),
			Venue:           "University Open-Air Theatre",
			ImageURL:        "/static/events/celestia.jpg",
			Active:          true,
		},
		{
			ID:              uuid.NewString(),
			Title:           "Retro Cinema Evening",
			Description:     "A double feature of 80s favourites hosted by the art club.",
			Price:           250,
			PhotoboothPrice: 150,
			Capacity:        120,
			StartsAt:        nextMonth.AddDate(0, 0, 14).Add(17 * time.Hour),
			Venue:           "Main Auditorium",
			ImageURL:        "/static/events/retro.jpg",
			Active:          true,
		},
		{
			ID:              uuid.NewString(),
			Title:           "Short Film Showcase (archived)",
			Description:     "Last semester's student short film screening.",
			Price:           200,
			PhotoboothPrice: 100,
			Capacity:        80,
			StartsAt:        time.Now().AddDate(0, -2, 0),
			Venue:           "Arts Building, Room 104",
			Active:          false,
		},
	}

	// Re-running the seeder must not duplicate events, so match by title.
	for _, e := range events {
		ev := e
		var count int64
		db.Model(&domain.Event{}).Where("title = ?", ev.Title).Count(&count)
		if count > 0 {
			log.Printf("Event exists, skipping: %s", ev.Title)
			continue
		}
		if err := db.Create(&ev).Error; err != nil {
			log.Fatal("seed event failed:", err)
		}
		log.Printf("Event created: %s (%s)", ev.Title, ev.ID)
	}

	log.Println("Seed completed")
}
