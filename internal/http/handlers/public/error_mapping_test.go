package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/indra-store/internal/service"

	"github.com/gin-gonic/gin"
)

func TestCreateOrderErrorRules(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
	}{
		{err: fmt.Errorf("allocate: %w", service.ErrOrderNumberExhausted), status: http.StatusInternalServerError},
		{err: service.ErrOrderItemInvalid, status: http.StatusBadRequest},
		{err: service.ErrCartEmpty, status: http.StatusBadRequest},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)

		respondWithMappedError(c, tc.err, createOrderErrorRules, 500, "error.internal")

		if w.Code != tc.status {
			t.Fatalf("%v: expected http %d, got %d", tc.err, tc.status, w.Code)
		}
		var body struct {
			StatusCode int    `json:"status_code"`
			Msg        string `json:"msg"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.StatusCode != tc.status || body.Msg == "" {
			t.Fatalf("%v: unexpected envelope %+v", tc.err, body)
		}
	}
}
