package main

import (
	"fmt"
	"time"

	"agency-pulse/internal/model"
	"agency-pulse/internal/repo/persistent"
	"agency-pulse/pkg/config"
	"agency-pulse/pkg/database"
	"agency-pulse/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, cfg, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, cfg *config.Config, log *logger.Logger) error {
	testSubscribers := []struct {
		email    string
		password string
		plan     string
		quota    int
	}{
		{"starter@test.com", "password123", "starter", cfg.PlanStarterQuota},
		{"growth@test.com", "password123", "growth", cfg.PlanGrowthQuota},
		{"professional@test.com", "password123", "professional", cfg.PlanProfessionalQuota},
	}

	platforms := []struct {
		name  string
		extra func(*model.PlatformConnectionModel)
	}{
		{"facebook", func(c *model.PlatformConnectionModel) { c.PageID = "seed-page-1" }},
		{"instagram", func(c *model.PlatformConnectionModel) { c.BusinessAccountID = "seed-ig-1" }},
		{"linkedin", func(c *model.PlatformConnectionModel) { c.ProfileURN = "urn:li:person:seed1" }},
		{"x", func(c *model.PlatformConnectionModel) {}},
		{"youtube", func(c *model.PlatformConnectionModel) { c.ChannelID = "seed-channel-1" }},
	}

	now := time.Now()
	subscribers := persistent.NewSubscriberRepository(db)

	for _, data := range testSubscribers {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(data.password), bcrypt.DefaultCost)

		if _, err := subscribers.GetByEmail(data.email); err == nil {
			log.Info("Subscriber %s already exists, skipping", data.email)
			continue
		}

		subscriber := &model.SubscriberModel{
			Email:        data.email,
			PasswordHash: string(hashedPassword),
			Plan:         data.plan,
			Active:       true,
		}
		if err := db.Create(subscriber).Error; err != nil {
			log.Error("Failed to create subscriber %s: %v", data.email, err)
			continue
		}
		log.Info("Created subscriber: %s (%s plan)", data.email, data.plan)

		entry := &model.QuotaLedgerEntryModel{
			SubscriberID: subscriber.ID,
			CycleStart:   now,
			CycleEnd:     now.AddDate(0, 0, cfg.QuotaCycleDays),
			Quota:        data.quota,
			Used:         0,
		}
		if err := db.Create(entry).Error; err != nil {
			log.Error("Failed to create ledger entry for %s: %v", data.email, err)
		}

		for _, p := range platforms {
			conn := &model.PlatformConnectionModel{
				SubscriberID: subscriber.ID,
				Platform:     p.name,
				AccessToken:  fmt.Sprintf("seed-token-%s-%s", data.plan, p.name),
				Active:       true,
			}
			p.extra(conn)
			if err := db.Create(conn).Error; err != nil {
				log.Error("Failed to create %s connection for %s: %v", p.name, data.email, err)
			}
		}

		for i, p := range platforms {
			post := &model.PostModel{
				SubscriberID: subscriber.ID,
				Platform:     p.name,
				Content:      fmt.Sprintf("Seed post #%d for %s on %s", i+1, data.plan, p.name),
				Status:       "draft",
				ScheduledFor: now.Add(time.Duration(i) * time.Hour),
			}
			if err := db.Create(post).Error; err != nil {
				log.Error("Failed to create seed post for %s: %v", data.email, err)
			}
		}

		log.Info("Created connections and draft posts for %s", data.email)
	}

	return nil
}
