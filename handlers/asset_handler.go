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

type AssetHandler struct {
	Service   *service.AssetService
	Validator *validator.Validate
}

func NewAssetHandler(s *service.AssetService) *AssetHandler {
	return &AssetHandler{
		Service:   s,
		Validator: utils.GetValidator(),
	}
}

func customerIDParam(c *gin.Context) (int64, bool) {
	customerID, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return 0, false
	}
	return customerID, true
}

// GET /api/assets/customer/:customerId
func (h *AssetHandler) GetAssetsByCustomer(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}
	assets, err := h.Service.GetAssetsByCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponses(assets))
}

// GET /api/assets/customer/:customerId/search?assetName=XYZ
func (h *AssetHandler) SearchAssets(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}
	assetName := c.Query("assetName")
	if assetName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'assetName' query parameter"})
		return
	}
	assets, err := h.Service.SearchAssets(c.Request.Context(), customerID, assetName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssetResponses(assets))
}

// GET /api/assets/customer/:customerId/:assetName
func (h *AssetHandler) GetAsset(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}
	asset, err := h.Service.GetAsset(c.Request.Context(), customerID, c.Param("assetName"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToAssetResponse(asset))
}

// POST /api/assets/customer/:customerId/:assetName/deposit
func (h *AssetHandler) Deposit(c *gin.Context) {
	customerID, ok := customerIDParam(c)
	if !ok {
		return
	}

	var req models.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"validation_errors": formatValidationError(err)})
		return
	}

	asset, err := h.Service.Deposit(c.Request.Context(), customerID, c.Param("assetName"), *req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToAssetResponse(asset))
}

func toAssetResponses(assets []models.Asset) []models.AssetResponse {
	responses := make([]models.AssetResponse, 0, len(assets))
	for i := range assets {
		responses = append(responses, models.ToAssetResponse(&assets[i]))
	}
	return responses
}
