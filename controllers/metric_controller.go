package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cinfob09/Stats.cinfob/metrics"
	"github.com/Cinfob09/Stats.cinfob/utils"
)

// MetricController exposes the supported metric catalog.
type MetricController struct{}

// NewMetricController creates a MetricController.
func NewMetricController() *MetricController {
	return &MetricController{}
}

// List returns the metric catalog, optionally filtered by platform.
func (mc *MetricController) List(ctx *gin.Context) {
	platform := ctx.Query("platform")
	if platform == "" {
		utils.Success(ctx, gin.H{"metrics": metrics.All()})
		return
	}

	switch metrics.Platform(platform) {
	case metrics.PlatformFacebook, metrics.PlatformInstagram:
		utils.Success(ctx, gin.H{"metrics": metrics.ByPlatform(metrics.Platform(platform))})
	default:
		utils.Error(ctx, http.StatusBadRequest, 40020, "unknown platform")
	}
}
