package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Pointer fields with required must be present but may be zero or empty.

type createFamilyRequest struct {
	Name *string `json:"name" validate:"required"`
}

type addMemberRequest struct {
	FamilyID   *int64  `json:"family_id" validate:"required"`
	MemberName *string `json:"member_name" validate:"required"`
	Phone      *string `json:"phone"`
}

type updateLocationRequest struct {
	MemberID  *int64   `json:"member_id" validate:"required"`
	Lat       *float64 `json:"lat" validate:"required"`
	Lon       *float64 `json:"lon" validate:"required"`
	Timestamp *int64   `json:"timestamp"`
}

type addBusinessRequest struct {
	Name        *string  `json:"name" validate:"required"`
	Type        *string  `json:"type" validate:"required"`
	Lat         *float64 `json:"lat" validate:"required"`
	Lon         *float64 `json:"lon" validate:"required"`
	Description *string  `json:"description"`
}

type sosRequest struct {
	MemberID *int64   `json:"member_id"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	Note     *string  `json:"note"`
}

// decodeRequest decodes a JSON body into dst and validates it. An empty body
// is accepted when allowEmpty is set.
func decodeRequest(r *http.Request, dst interface{}, allowEmpty bool) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return fmt.Errorf("%s: %v", ErrInvalidRequestBody, err)
		}
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
