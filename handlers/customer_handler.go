package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mustafasamisahin/brokage-module/models"
	"github.com/mustafasamisahin/brokage-module/service"
	"github.com/mustafasamisahin/brokage-module/utils"
)

type CustomerHandler struct {
	Service   *service.CustomerService
	Validator *validator.Validate
}

func NewCustomerHandler(s *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		Service:   s,
		Validator: utils.GetValidator(),
	}
}

// POST /api/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"validation_errors": formatValidationError(err)})
		return
	}

	customer, err := h.Service.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GET /api/customers/:customerId
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}
	customer, err := h.Service.GetCustomerByID(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// GET /api/customers
func (h *CustomerHandler) GetAllCustomers(c *gin.Context) {
	customers, err := h.Service.GetAllCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// PUT /api/customers/:customerId
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	var req models.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"validation_errors": formatValidationError(err)})
		return
	}

	customer, err := h.Service.UpdateCustomer(c.Request.Context(), customerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DELETE /api/customers/:customerId
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}
	if err := h.Service.DeleteCustomer(c.Request.Context(), customerID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
