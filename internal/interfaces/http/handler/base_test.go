package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopcraft/storefront/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", shared.ErrNotFound.WithMessage("Product not found"), http.StatusNotFound, dto.ErrCodeNotFound, "Product not found"},
		{"invalid input", shared.ErrInvalidInput.WithMessage("bad"), http.StatusBadRequest, dto.ErrCodeInvalidInput, "bad"},
		{"out of stock", shared.ErrOutOfStock, http.StatusUnprocessableEntity, dto.ErrCodeOutOfStock, shared.ErrOutOfStock.Message},
		{"backing store", shared.ErrBackingStoreUnavailable.Wrap(errors.New("dial tcp")), http.StatusServiceUnavailable, dto.ErrCodeUnavailable, shared.ErrBackingStoreUnavailable.Message},
		{"conflict", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists, shared.ErrAlreadyExists.Message},
		{"unknown", errors.New("pq: relation does not exist"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			r := gin.New()
			r.GET("/", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w, resp := doJSON(t, r, http.MethodGet, "/", nil, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, resp.Success)
			if assert.NotNil(t, resp.Error) {
				assert.Equal(t, tt.wantCode, resp.Error.Code)
				assert.Equal(t, tt.wantMsg, resp.Error.Message)
			}
		})
	}
}

func TestBaseHandler_ParseID(t *testing.T) {
	h := &BaseHandler{}
	r := gin.New()
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := h.ParseID(c, "id", "Invalid item ID")
		if !ok {
			return
		}
		h.Success(c, id)
	})

	for _, raw := range []string{"abc", "0", "-3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/"+raw, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
		assert.Contains(t, w.Body.String(), "Invalid item ID")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/12", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
