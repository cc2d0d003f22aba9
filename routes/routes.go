package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mustafasamisahin/brokage-module/handlers"
	"github.com/mustafasamisahin/brokage-module/middleware"
	"github.com/mustafasamisahin/brokage-module/service"
)

func RegisterRoutes(router *gin.Engine, customerSrv *service.CustomerService, assetSrv *service.AssetService, orderSrv *service.OrderService) {
	router.Use(middleware.RequestID())

	customerHandler := handlers.NewCustomerHandler(customerSrv)
	assetHandler := handlers.NewAssetHandler(assetSrv)
	orderHandler := handlers.NewOrderHandler(orderSrv)

	api := router.Group("/api")
	{
		customers := api.Group("/customers")
		{
			customers.POST("", customerHandler.CreateCustomer)
			customers.GET("", customerHandler.GetAllCustomers)
			customers.GET("/:customerId", customerHandler.GetCustomer)
			customers.PUT("/:customerId", customerHandler.UpdateCustomer)
			customers.DELETE("/:customerId", customerHandler.DeleteCustomer)
		}

		assets := api.Group("/assets")
		{
			assets.GET("/customer/:customerId", assetHandler.GetAssetsByCustomer)
			assets.GET("/customer/:customerId/search", assetHandler.SearchAssets)
			assets.GET("/customer/:customerId/:assetName", assetHandler.GetAsset)
			assets.POST("/customer/:customerId/:assetName/deposit", assetHandler.Deposit)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/pending", orderHandler.GetPendingOrders)
			orders.GET("/customer/:customerId", orderHandler.GetOrdersByCustomer)
			orders.GET("/:orderId", orderHandler.GetOrder)
			orders.DELETE("/:orderId", orderHandler.CancelOrder)
			orders.POST("/:orderId/match", orderHandler.MatchOrder)
		}
	}
}
