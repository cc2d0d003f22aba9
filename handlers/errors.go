package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mustafasamisahin/brokage-module/models"
)

func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrCustomerNotFound),
		errors.Is(err, models.ErrAssetNotFound),
		errors.Is(err, models.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidOrder):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrDuplicateCustomer),
		errors.Is(err, models.ErrInvalidOrderStatus):
		return http.StatusConflict
	case errors.Is(err, models.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, models.ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(status, models.ErrorResponse{Error: err.Error()})
}

func formatValidationError(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			fields[e.Field()] = "failed on tag '" + e.Tag() + "'"
		}
	}
	return fields
}
