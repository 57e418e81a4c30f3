package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/haitham-akram/prestige-designs-sub003/config"
	"github.com/haitham-akram/prestige-designs-sub003/controllers"
	"github.com/haitham-akram/prestige-designs-sub003/database"
	"github.com/haitham-akram/prestige-designs-sub003/pkg/logger"
	"github.com/haitham-akram/prestige-designs-sub003/routes"
	"github.com/haitham-akram/prestige-designs-sub003/services/fulfillment"
	"github.com/haitham-akram/prestige-designs-sub003/services/mailer"
	"github.com/haitham-akram/prestige-designs-sub003/services/paypal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	lg := logger.New(cfg.LogLevel)

	db, err := database.Connect(context.Background(), cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("failed to connect to MongoDB: ", err)
	}
	defer db.Close(context.Background())
	lg.Info("connected to MongoDB", "db", cfg.DBName)

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom, lg)
	pp := paypal.NewClient(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalSecret, cfg.Currency, lg)
	ff := fulfillment.New(db, mail, cfg, lg)

	jwtSecret := []byte(cfg.JWTSecret)
	ctrl := routes.Controllers{
		Auth:          controllers.NewAuthController(db, jwtSecret, lg),
		Products:      controllers.NewProductController(db),
		AdminProducts: controllers.NewAdminProductController(db),
		Categories:    controllers.NewCategoryController(db),
		Cart:          controllers.NewCartController(db),
		Orders:        controllers.NewOrderController(db, ff, lg),
		AdminOrders:   controllers.NewAdminOrderController(db, ff, pp, lg),
		PayPal:        controllers.NewPayPalController(db, pp, ff, lg),
		Promo:         controllers.NewPromoController(db),
		DesignFiles:   controllers.NewDesignFileController(db),
		Settings:      controllers.NewSettingsController(db),
	}

	r := gin.Default()
	r.SetTrustedProxies(nil)
	routes.Register(r, db, jwtSecret, ctrl)

	lg.Info("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped: ", err)
	}
}
