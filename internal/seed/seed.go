// Package seed provisions roles, demo users, sample accounts, and a few
// months of balance history for a fresh database.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/models"
)

func Run(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	db = db.WithContext(ctx)

	roles, err := seedRoles(db, log)
	if err != nil {
		return fmt.Errorf("seeding roles: %w", err)
	}
	if err := seedUsers(db, roles, log); err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	if err := seedAccounts(db, log); err != nil {
		return fmt.Errorf("seeding accounts: %w", err)
	}
	if err := seedBalanceHistory(db, log); err != nil {
		return fmt.Errorf("seeding balance history: %w", err)
	}

	log.Info().Msg("database seeding completed")
	return nil
}

func seedRoles(db *gorm.DB, log zerolog.Logger) (map[string]models.Role, error) {
	out := make(map[string]models.Role)
	for _, name := range []string{models.RoleAdmin, models.RoleUser} {
		role := models.Role{ID: uuid.New(), Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return nil, err
		}
		out[name] = role
	}
	return out, nil
}

func seedUsers(db *gorm.DB, roles map[string]models.Role, log zerolog.Logger) error {
	users := []struct {
		Username string
		Email    string
		Password string
		Role     string
	}{
		{Username: "admin", Email: "admin@example.com", Password: "Admin@123", Role: models.RoleAdmin},
		{Username: "john.doe", Email: "john.doe@example.com", Password: "User@123", Role: models.RoleUser},
	}

	for _, u := range users {
		var count int64
		if err := db.Model(&models.User{}).Where("LOWER(username) = LOWER(?)", u.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := models.User{
			ID:           uuid.New(),
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: string(hash),
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		if err := db.Create(&models.UserRole{UserID: user.ID, RoleID: roles[u.Role].ID}).Error; err != nil {
			return err
		}
		log.Info().Str("username", u.Username).Str("role", u.Role).Msg("created user")
	}
	return nil
}

func seedAccounts(db *gorm.DB, log zerolog.Logger) error {
	var count int64
	if err := db.Model(&models.Account{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	names := []string{"R&D", "Canteen", "CEO's car expenses", "Marketing", "Parking fines"}
	for _, name := range names {
		account := models.Account{
			ID:        uuid.New(),
			Name:      name,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}
		if err := db.Create(&account).Error; err != nil {
			return err
		}
	}
	log.Info().Int("count", len(names)).Msg("created sample accounts")
	return nil
}

func seedBalanceHistory(db *gorm.DB, log zerolog.Logger) error {
	var count int64
	if err := db.Model(&models.BalanceRecord{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var admin models.User
	if err := db.Where("username = ?", "admin").First(&admin).Error; err != nil {
		log.Warn().Msg("admin user not found, skipping balance history seeding")
		return nil
	}

	var accounts []models.Account
	if err := db.Find(&accounts).Error; err != nil {
		return err
	}
	if len(accounts) == 0 {
		log.Warn().Msg("no accounts found, skipping balance history seeding")
		return nil
	}

	created := 0
	for monthOffset := 1; monthOffset <= 5; monthOffset++ {
		date := time.Now().AddDate(0, -monthOffset, 0)
		for _, account := range accounts {
			base := sampleAmount(account.Name)
			// -15% to +15% month-to-month variation.
			variation := 1 + float64(rand.Intn(31)-15)/100
			amount := decimal.NewFromFloat(float64(base) * variation).Round(2)

			record := models.BalanceRecord{
				ID:         uuid.New(),
				AccountID:  account.ID,
				Year:       date.Year(),
				Month:      int(date.Month()),
				Amount:     amount,
				UploadedBy: admin.ID,
				UploadedAt: time.Now().UTC().AddDate(0, -monthOffset, -rand.Intn(27)-1),
			}
			if err := db.Create(&record).Error; err != nil {
				return err
			}
			created++
		}
	}

	log.Info().Int("count", created).Msg("created sample balance history")
	return nil
}

func sampleAmount(accountName string) int {
	switch accountName {
	case "R&D":
		return 50000 + rand.Intn(100000)
	case "Canteen":
		return 5000 + rand.Intn(20000)
	case "CEO's car expenses":
		return 8000 + rand.Intn(12000)
	case "Marketing":
		return -5000 + rand.Intn(65000)
	case "Parking fines":
		return 500 + rand.Intn(2500)
	default:
		return 1000 + rand.Intn(9000)
	}
}
