package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/api/deadlines/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/deadlines/:id", "204"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/deadlines/abc", nil))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/deadlines/:id", "204"))
	if after-before != 1 {
		t.Errorf("Expected one request counted on the template path, got %v", after-before)
	}
}

func TestObserveImportAndExtraction(t *testing.T) {
	beforeImported := testutil.ToFloat64(recordsImported.WithLabelValues("deadlines"))
	beforeSkipped := testutil.ToFloat64(recordsSkipped.WithLabelValues("deadlines"))
	beforeFailures := testutil.ToFloat64(extractionFailures.WithLabelValues("deadlines"))

	ObserveImport("deadlines", 3, 2)
	ObserveExtraction("deadlines", time.Second, nil)
	ObserveExtraction("deadlines", time.Second, errors.New("timeout"))

	if got := testutil.ToFloat64(recordsImported.WithLabelValues("deadlines")) - beforeImported; got != 3 {
		t.Errorf("Expected 3 imported, got %v", got)
	}
	if got := testutil.ToFloat64(recordsSkipped.WithLabelValues("deadlines")) - beforeSkipped; got != 2 {
		t.Errorf("Expected 2 skipped, got %v", got)
	}
	if got := testutil.ToFloat64(extractionFailures.WithLabelValues("deadlines")) - beforeFailures; got != 1 {
		t.Errorf("Expected 1 failure, got %v", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/metrics", Handler())
	ObserveImport("audiences", 1, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "cp_records_imported_total") {
		t.Error("Expected import counter in exposition")
	}
}
