package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"voyarental/internal/database"
	"voyarental/internal/domain"
	"voyarental/internal/middleware"
	"voyarental/internal/modules/auth"
	"voyarental/internal/modules/booking"
	"voyarental/internal/modules/discount"
	"voyarental/internal/modules/events"
	"voyarental/internal/modules/fleet"
	"voyarental/internal/modules/notification"
	"voyarental/internal/modules/payment"
	jwtsvc "voyarental/internal/pkg/jwt"
	"voyarental/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
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

	loggerf := log.Printf

	paymentRepo := repository.NewPaymentRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	carRepo := repository.NewCarRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)
	hub := events.NewHub(loggerf)
	defer hub.Close()
	mailer := notification.NewConsoleMailer(loggerf)
	gateway := payment.NewPaystackClient()

	authService := auth.NewService(adminRepo, j, loggerf)
	authHandler := auth.NewHandler(authService, loggerf)

	fleetService := fleet.NewService(carRepo, loggerf)
	fleetHandler := fleet.NewHandler(fleetService, loggerf)

	discountService := discount.NewService(discountRepo, loggerf)
	discountHandler := discount.NewHandler(discountService, loggerf)

	paymentService := payment.NewService(paymentRepo, bookingRepo, gateway, mailer, hub, loggerf)
	paymentHandler := payment.NewHandler(paymentService, loggerf)

	bookingService := booking.NewService(bookingRepo, carRepo, discountService, paymentService, mailer, hub, loggerf)
	bookingHandler := booking.NewHandler(bookingService, loggerf)

	eventsHandler := events.NewHandler(hub, loggerf)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		fleetHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)
		discountHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterPublicRoutes(v1)

		// authenticated admins
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)

			admin := protected.Group("/admin")
			{
				fleetHandler.RegisterAdminRoutes(admin)
				bookingHandler.RegisterAdminRoutes(admin)
				discountHandler.RegisterAdminRoutes(admin)
				paymentHandler.RegisterAdminRoutes(admin)
				eventsHandler.RegisterAdminRoutes(admin)
			}

			super := protected.Group("/")
			super.Use(middleware.SuperAdminOnly())
			{
				authHandler.RegisterSuperAdminRoutes(super)
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
