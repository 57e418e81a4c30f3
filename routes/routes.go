package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/haitham-akram/prestige-designs-sub003/controllers"
	"github.com/haitham-akram/prestige-designs-sub003/database"
	"github.com/haitham-akram/prestige-designs-sub003/middleware"
)

// Controllers bundles every route handler group.
type Controllers struct {
	Auth          *controllers.AuthController
	Products      *controllers.ProductController
	AdminProducts *controllers.AdminProductController
	Categories    *controllers.CategoryController
	Cart          *controllers.CartController
	Orders        *controllers.OrderController
	AdminOrders   *controllers.AdminOrderController
	PayPal        *controllers.PayPalController
	Promo         *controllers.PromoController
	DesignFiles   *controllers.DesignFileController
	Settings      *controllers.SettingsController
}

func Register(r *gin.Engine, db *database.Mongo, jwtSecret []byte, ctrl Controllers) {
	api := r.Group("/api")
	{
		api.POST("/register", ctrl.Auth.Register)
		api.POST("/login", ctrl.Auth.Login)
		api.POST("/logout", ctrl.Auth.Logout)

		api.GET("/products", ctrl.Products.List)
		api.GET("/products/:id", ctrl.Products.Get)
		api.GET("/categories", ctrl.Categories.ListPublic)
		api.GET("/settings", ctrl.Settings.Get)

		protected := api.Group("/")
		protected.Use(middleware.Auth(db, jwtSecret))
		{
			paypal := protected.Group("/paypal")
			{
				paypal.POST("/create-order", ctrl.PayPal.CreateOrder)
				paypal.POST("/capture-payment", ctrl.PayPal.CapturePayment)
			}

			user := protected.Group("/user")
			{
				user.POST("/cart", ctrl.Cart.Add)
				user.GET("/cart", ctrl.Cart.Get)
				user.PUT("/cart/:productId", ctrl.Cart.Update)
				user.DELETE("/cart/:productId", ctrl.Cart.Remove)

				user.POST("/checkout", ctrl.Orders.Checkout)
				user.GET("/orders", ctrl.Orders.List)
				user.GET("/orders/:id", ctrl.Orders.Get)
				user.PUT("/orders/:id/cancel", ctrl.Orders.Cancel)
				user.GET("/orders/:id/files", ctrl.Orders.Files)
				user.POST("/orders/:id/files/:fileId/download", ctrl.Orders.Download)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.GET("/products", ctrl.AdminProducts.List)
				admin.POST("/products", ctrl.AdminProducts.Create)
				admin.PUT("/products/:id", ctrl.AdminProducts.Update)
				admin.DELETE("/products/:id", ctrl.AdminProducts.Delete)
				admin.GET("/products/:id/design-files", ctrl.DesignFiles.ListForProduct)
				admin.POST("/products/:id/design-files", ctrl.DesignFiles.AddToProduct)
				admin.DELETE("/design-files/:id", ctrl.DesignFiles.Deactivate)

				admin.GET("/categories", ctrl.Categories.ListAdmin)
				admin.POST("/categories", ctrl.Categories.Create)
				admin.PUT("/categories/:id", ctrl.Categories.Update)
				admin.DELETE("/categories/:id", ctrl.Categories.Delete)

				admin.GET("/orders", ctrl.AdminOrders.List)
				admin.GET("/orders/:id", ctrl.AdminOrders.Get)
				admin.PUT("/orders/:id/status", ctrl.AdminOrders.UpdateStatus)
				admin.POST("/orders/:id/complete", ctrl.AdminOrders.Complete)
				admin.POST("/orders/:id/design-files", ctrl.AdminOrders.AttachDesignFile)
				admin.PUT("/orders/:id/cancel", ctrl.AdminOrders.Cancel)

				admin.GET("/promo-codes", ctrl.Promo.List)
				admin.POST("/promo-codes", ctrl.Promo.Create)
				admin.PUT("/promo-codes/:id", ctrl.Promo.Update)
				admin.DELETE("/promo-codes/:id", ctrl.Promo.Delete)
				admin.POST("/promo-codes/validate", ctrl.Promo.Validate)

				admin.GET("/settings", ctrl.Settings.Get)
				admin.PUT("/settings", ctrl.Settings.Update)
			}
		}
	}
}
