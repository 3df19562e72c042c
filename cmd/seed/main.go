package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"voyarental/internal/database"
	"voyarental/internal/domain"
	"voyarental/internal/repository"
)

// Seeds a local database with a super admin, a small fleet and one discount.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(
		&domain.Admin{},
		&domain.Car{},
		&domain.Discount{},
		&domain.Booking{},
		&domain.Payment{},
	); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}

	adminRepo := repository.NewAdminRepository(db)
	if _, err := adminRepo.GetByEmail(ctx, email); err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		admin := &domain.Admin{
			Name:         "Super Admin",
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleSuperAdmin,
		}
		if err := adminRepo.Create(ctx, admin); err != nil {
			log.Fatal(err)
		}
		log.Printf("created super admin %s", email)
	} else {
		log.Printf("super admin %s already exists", email)
	}

	carRepo := repository.NewCarRepository(db)
	cars := []domain.Car{
		{
			Name:        "Toyota Corolla 2022",
			PricePerDay: 150,
			Type:        domain.CarTypeSedan,
			Images:      domain.StringList{"/images/corolla-1.jpg"},
			Features:    domain.CarFeatures{Seats: 5, Fuel: "Petrol", Year: 2022, Transmission: "Auto", Duration: "24 hours"},
			Available:   true,
			Status:      domain.CarAvailable,
			Amenities:   domain.StringList{"AC", "Bluetooth"},
		},
		{
			Name:        "Lexus RX 350",
			PricePerDay: 400,
			Type:        domain.CarTypeSUV,
			Images:      domain.StringList{"/images/rx350-1.jpg", "/images/rx350-2.jpg"},
			Features:    domain.CarFeatures{Seats: 5, Fuel: "Petrol", Year: 2023, Transmission: "Auto", Duration: "24 hours"},
			Available:   true,
			Status:      domain.CarAvailable,
			Amenities:   domain.StringList{"AC", "Leather seats", "Reverse camera"},
		},
		{
			Name:        "Toyota Hiace",
			PricePerDay: 350,
			Type:        domain.CarTypeVan,
			Images:      domain.StringList{"/images/hiace-1.jpg"},
			Features:    domain.CarFeatures{Seats: 14, Fuel: "Diesel", Year: 2021, Transmission: "Manual", Duration: "12 hours"},
			Available:   true,
			Status:      domain.CarAvailable,
		},
	}
	for i := range cars {
		if err := carRepo.Create(ctx, &cars[i]); err != nil {
			log.Printf("skipping car %q: %v", cars[i].Name, err)
			continue
		}
		log.Printf("created car %q id=%d", cars[i].Name, cars[i].ID)
	}

	discountRepo := repository.NewDiscountRepository(db)
	d := &domain.Discount{
		Code:          "WELCOME10",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
		MaxDiscount:   100,
		ValidFrom:     time.Now(),
		ValidUntil:    time.Now().AddDate(0, 3, 0),
		UsageLimit:    1000,
		IsActive:      true,
	}
	if err := discountRepo.Create(ctx, d); err != nil {
		log.Printf("skipping discount %s: %v", d.Code, err)
	} else {
		log.Printf("created discount %s id=%d", d.Code, d.ID)
	}
}
