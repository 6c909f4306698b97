package middlewares

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger logs each request through the process-wide zap logger.
func Logger() gin.HandlerFunc {
	return ginzap.Ginzap(zap.L().Named("http"), time.RFC3339, true)
}
