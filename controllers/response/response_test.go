package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/canteen-api/models"
	"github.com/junaidrashid-git/canteen-api/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Error(c, err)
	assert.True(t, c.IsAborted())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(services.KindValidation))
	assert.Equal(t, http.StatusBadRequest, StatusFor(services.KindPreconditionFailed))
	assert.Equal(t, http.StatusBadRequest, StatusFor(services.KindInvalidState))
	assert.Equal(t, http.StatusNotFound, StatusFor(services.KindNotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(services.KindConcurrencyConflict))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(services.Kind(0)))
}

func TestError(t *testing.T) {
	t.Run("invalid state carries both statuses", func(t *testing.T) {
		code, body := serve(t, errors.Wrap(&services.Error{
			Kind:      services.KindInvalidState,
			Message:   "cannot change order status from PENDING to DELIVERED",
			Current:   models.OrderStatusPending,
			Requested: models.OrderStatusDelivered,
		}, "update status"))

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "cannot change order status from PENDING to DELIVERED", body["error"])
		assert.Equal(t, "invalid_state", body["code"])
		assert.Equal(t, "PENDING", body["current_status"])
		assert.Equal(t, "DELIVERED", body["requested_status"])
	})

	t.Run("not found", func(t *testing.T) {
		code, body := serve(t, &services.Error{Kind: services.KindNotFound, Message: "order not found", Field: "order"})
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "order", body["field"])
		assert.NotContains(t, body, "current_status")
	})

	t.Run("storage failures are hidden", func(t *testing.T) {
		code, body := serve(t, errors.New("pq: relation \"orders\" does not exist"))
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Internal server error", body["error"])
	})
}

func TestIDParam(t *testing.T) {
	for raw, ok := range map[string]bool{"12": true, "0": false, "-3": false, "abc": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		id, got := IDParam(c, "id")
		assert.Equal(t, ok, got, raw)
		if ok {
			assert.Equal(t, uint(12), id)
		} else {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}
