package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mustafasamisahin/brokage-module/models"
	"github.com/mustafasamisahin/brokage-module/service"
	"github.com/mustafasamisahin/brokage-module/utils"
)

const dateLayout = "2006-01-02"

type OrderHandler struct {
	Service   *service.OrderService
	Validator *validator.Validate
}

func NewOrderHandler(s *service.OrderService) *OrderHandler {
	return &OrderHandler{
		Service:   s,
		Validator: utils.GetValidator(),
	}
}

// POST /api/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"validation_errors": formatValidationError(err)})
		return
	}

	order, err := h.Service.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ToOrderResponse(order))
}

// DELETE /api/orders/:orderId
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}
	if err := h.Service.CancelOrder(c.Request.Context(), orderID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/orders/:orderId/match
func (h *OrderHandler) MatchOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}
	if err := h.Service.MatchOrder(c.Request.Context(), orderID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// GET /api/orders/:orderId
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}
	order, err := h.Service.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToOrderResponse(order))
}

// GET /api/orders/customer/:customerId?startDate=&endDate=&status=
func (h *OrderHandler) GetOrdersByCustomer(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	startStr, endStr := c.Query("startDate"), c.Query("endDate")

	var orders []models.Order
	if startStr != "" && endStr != "" {
		startDate, err := time.Parse(dateLayout, startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate, expected YYYY-MM-DD"})
			return
		}
		endDate, err := time.Parse(dateLayout, endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate, expected YYYY-MM-DD"})
			return
		}
		orders, err = h.Service.GetOrdersByDateRange(c.Request.Context(), customerID, startDate, endDate, status)
		if err != nil {
			respondError(c, err)
			return
		}
	} else {
		orders, err = h.Service.GetOrdersByCustomer(c.Request.Context(), customerID)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	responses := make([]models.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, models.ToOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GET /api/orders/pending
func (h *OrderHandler) GetPendingOrders(c *gin.Context) {
	orders, err := h.Service.GetPendingOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]models.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, models.ToOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, responses)
}
