package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Cinfob09/Stats.cinfob/collector"
	"github.com/Cinfob09/Stats.cinfob/metrics"
	"github.com/Cinfob09/Stats.cinfob/middleware"
	"github.com/Cinfob09/Stats.cinfob/models"
	"github.com/Cinfob09/Stats.cinfob/utils"
)

const (
	reportStatsLimit     = 50
	reportCachePrefix    = "cache:reports:user:"
	reportDeleteScope    = "report-delete"
	reportCacheTTL       = 5 * time.Minute
	deleteTicketLifetime = 5 * time.Minute
)

// ReportController handles report creation, listing, stat retrieval and the
// two-step delete flow.
type ReportController struct {
	db           *gorm.DB
	orchestrator *collector.Orchestrator
}

// NewReportController creates a ReportController.
func NewReportController(db *gorm.DB, orch *collector.Orchestrator) *ReportController {
	return &ReportController{db: db, orchestrator: orch}
}

// Create validates the request, persists the report, runs a collection pass
// over the selected connections and stores whatever records came back.
// Per-scope fetch failures are reported in the response, not treated as
// fatal.
func (rc *ReportController) Create(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "not authenticated")
		return
	}

	type request struct {
		Title         string   `json:"title" binding:"required"`
		Description   string   `json:"description"`
		ConnectionIDs []uint   `json:"connection_ids" binding:"required"`
		MetricIDs     []string `json:"metric_ids" binding:"required"`
		PeriodType    string   `json:"period_type"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	title := utils.SanitizeText(req.Title)
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "title must not be empty")
		return
	}
	if req.PeriodType == "" {
		req.PeriodType = models.PeriodDaily
	}
	if !models.ValidPeriodType(req.PeriodType) {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid period type")
		return
	}

	connIDs := utils.UniqueUint(req.ConnectionIDs)
	if len(connIDs) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40033, "at least one connection is required")
		return
	}

	selection := metrics.NewSelection(req.MetricIDs...)
	metricIDs := make([]string, 0, selection.Len())
	for _, id := range selection.IDs() {
		if _, known := metrics.Lookup(id); known {
			metricIDs = append(metricIDs, id)
		}
	}
	if len(metricIDs) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40034, "at least one known metric is required")
		return
	}

	// Resolve against the user's own connections; ids that do not belong
	// to the user are dropped rather than rejected.
	var conns []models.Connection
	if err := rc.db.Where("user_id = ? AND id IN ?", userID, connIDs).Find(&conns).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to resolve connections")
		return
	}

	// The snapshot keeps only the ids that resolved; ids the user never
	// linked could not start resolving later anyway.
	resolvedIDs := make([]uint, 0, len(conns))
	for _, c := range conns {
		resolvedIDs = append(resolvedIDs, c.ID)
	}

	now := time.Now()
	report := models.Report{
		UserID:        userID,
		Title:         title,
		Description:   utils.SanitizeText(req.Description),
		ConnectionIDs: resolvedIDs,
		MetricIDs:     metricIDs,
		PeriodType:    req.PeriodType,
		LastSync:      now,
	}
	if err := rc.db.Create(&report).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to create report")
		return
	}

	result := rc.orchestrator.Collect(ctx.Request.Context(), conns, metricIDs)
	for i := range result.Stats {
		result.Stats[i].UserID = userID
	}
	if len(result.Stats) > 0 {
		if err := rc.db.Create(&result.Stats).Error; err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Errorf("persist collected stats for report %d: %v", report.ID, err)
			}
			utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to store collected statistics")
			return
		}
	}

	utils.InvalidateByPrefix(reportCacheKey(userID))
	utils.Success(ctx, gin.H{
		"report":          report,
		"stats_collected": len(result.Stats),
		"failures":        failureResponses(result.Failures),
	})
}

// List returns the user's reports, newest first, each with the number of
// stat records its connection snapshot currently covers.
func (rc *ReportController) List(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "not authenticated")
		return
	}

	if b, hit := utils.CacheGetBytes(reportCacheKey(userID)); hit {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var reports []models.Report
	if err := rc.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reports).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to list reports")
		return
	}

	items := make([]gin.H, 0, len(reports))
	for _, r := range reports {
		var count int64
		if len(r.ConnectionIDs) > 0 {
			clause, args := statsScope(userID, r)
			if err := rc.db.Model(&models.SocialStat{}).
				Where(clause, args...).
				Count(&count).Error; err != nil {
				utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to count statistics")
				return
			}
		}
		items = append(items, gin.H{
			"report":      r,
			"stats_count": count,
		})
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"reports": items}}
	utils.CacheSetJSON(reportCacheKey(userID), wrapper, reportCacheTTL)
	utils.Success(ctx, gin.H{"reports": items})
}

// Stats returns the most recent records for a report, formatted for
// display.
func (rc *ReportController) Stats(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "not authenticated")
		return
	}

	report, ok := rc.ownedReport(ctx, userID)
	if !ok {
		return
	}

	var stats []models.SocialStat
	if len(report.ConnectionIDs) > 0 {
		clause, args := statsScope(userID, report)
		if err := rc.db.
			Where(clause, args...).
			Order("created_at DESC").
			Limit(reportStatsLimit).
			Find(&stats).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load statistics")
			return
		}
	}

	items := make([]gin.H, 0, len(stats))
	for _, s := range stats {
		items = append(items, gin.H{
			"id":            s.ID,
			"connection_id": s.ConnectionID,
			"platform":      s.Platform,
			"metric_name":   s.MetricName,
			"metric_value":  s.MetricValue,
			"display_value": metrics.FormatValue(s.MetricName, s.MetricValue),
			"period_start":  s.PeriodStart,
			"period_end":    s.PeriodEnd,
			"created_at":    s.CreatedAt,
		})
	}

	utils.Success(ctx, gin.H{
		"report": report,
		"stats":  items,
	})
}

// RequestDelete issues a short-lived confirmation ticket for deleting a
// report.
func (rc *ReportController) RequestDelete(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "not authenticated")
		return
	}

	report, ok := rc.ownedReport(ctx, userID)
	if !ok {
		return
	}

	ticket := utils.IssueTicket(deleteScopeFor(userID, report.ID), deleteTicketLifetime)
	utils.Success(ctx, gin.H{
		"confirm_token": ticket,
		"expires_in":    int(deleteTicketLifetime.Seconds()),
	})
}

// ConfirmDelete consumes the ticket and removes the report. Collected
// statistics are kept; only the report row goes away.
func (rc *ReportController) ConfirmDelete(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "not authenticated")
		return
	}

	report, ok := rc.ownedReport(ctx, userID)
	if !ok {
		return
	}

	var req struct {
		ConfirmToken string `json:"confirm_token" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40035, "invalid request payload")
		return
	}
	if !utils.ConsumeTicket(deleteScopeFor(userID, report.ID), req.ConfirmToken) {
		utils.Error(ctx, http.StatusBadRequest, 40036, "invalid or expired confirmation token")
		return
	}

	if err := rc.db.Delete(&models.Report{}, report.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to delete report")
		return
	}

	utils.InvalidateByPrefix(reportCacheKey(userID))
	utils.Success(ctx, gin.H{"message": "report deleted"})
}

func (rc *ReportController) ownedReport(ctx *gin.Context, userID uint) (models.Report, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40037, "invalid report id")
		return models.Report{}, false
	}

	var report models.Report
	if err := rc.db.Where("user_id = ?", userID).First(&report, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40402, "report not found")
			return models.Report{}, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to load report")
		return models.Report{}, false
	}
	return report, true
}

// statsScope selects the stat rows a report covers: the user's rows for the
// connections in the snapshot. The metric set never narrows the scope, so
// reports sharing connections see each other's records.
func statsScope(userID uint, r models.Report) (string, []interface{}) {
	return "user_id = ? AND connection_id IN ?", []interface{}{userID, r.ConnectionIDs}
}

func reportCacheKey(userID uint) string {
	return reportCachePrefix + strconv.FormatUint(uint64(userID), 10)
}

func deleteScopeFor(userID, reportID uint) string {
	return reportDeleteScope + ":" + strconv.FormatUint(uint64(userID), 10) + ":" + strconv.FormatUint(uint64(reportID), 10)
}

func failureResponses(failures []collector.ScopeFailure) []gin.H {
	out := make([]gin.H, 0, len(failures))
	for _, f := range failures {
		out = append(out, gin.H{
			"connection_id": f.ConnectionID,
			"platform":      f.Platform,
			"message":       f.Message,
		})
	}
	return out
}
