package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/sysmonitor/web-monitor/api/v1"
	"github.com/sysmonitor/web-monitor/internal/handlers"
	"github.com/sysmonitor/web-monitor/internal/models"
)

var _ = Describe("Metrics Handler", func() {
	var (
		mockMetrics *MockMetricsService
		router      *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		mockMetrics = &MockMetricsService{
			ReadResult: models.SystemMetrics{
				CPUModel:      "Intel(R) Core(TM) i7-8650U CPU @ 1.90GHz",
				CPUCores:      4,
				CPUThreads:    8,
				CPUUsage:      23.5,
				CPUFreqMHz:    1900,
				RAMTotalBytes: 16 << 30,
				RAMUsedBytes:  6 << 30,
				RAMPercent:    37.5,
			},
		}
		handler := handlers.New(&MockMonitorService{}, mockMetrics)
		router = gin.New()
		handler.RegisterRoutes(router.Group("/api/v1"))
	})

	Describe("GetMetrics", func() {
		// Given a live utilization sample
		// When we request the metrics
		// Then the sample should be returned as JSON
		It("should return the current sample", func() {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil)
			w := httptest.NewRecorder()

			// Act
			router.ServeHTTP(w, req)

			// Assert
			Expect(w.Code).To(Equal(http.StatusOK))
			var response v1.Metrics
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.CPUCores).To(Equal(4))
			Expect(response.CPUThreads).To(Equal(8))
			Expect(response.CPUUsage).To(BeNumerically("~", 23.5, 0.01))
			Expect(response.RAMTotalBytes).To(Equal(uint64(16 << 30)))
			Expect(response.RAMPercent).To(BeNumerically("~", 37.5, 0.01))
		})
	})
})
