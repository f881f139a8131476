package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/Cinfob09/Stats.cinfob/config"
	"github.com/Cinfob09/Stats.cinfob/meta"
	"github.com/Cinfob09/Stats.cinfob/middleware"
	"github.com/Cinfob09/Stats.cinfob/models"
	"github.com/Cinfob09/Stats.cinfob/utils"
)

// metaOAuthScopes covers page listing plus insights for both the page and
// any linked Instagram business account.
var metaOAuthScopes = []string{
	"pages_show_list",
	"pages_read_engagement",
	"read_insights",
	"instagram_basic",
	"instagram_manage_insights",
}

const disconnectTicketScope = "disconnect"

// ConnectionController manages the Meta OAuth flow and the set of pages
// linked to an account.
type ConnectionController struct {
	db    *gorm.DB
	graph *meta.Client
}

// NewConnectionController creates a ConnectionController.
func NewConnectionController(db *gorm.DB, graph *meta.Client) *ConnectionController {
	return &ConnectionController{db: db, graph: graph}
}

func metaOAuthConfig() *oauth2.Config {
	cfg := config.Get()
	return &oauth2.Config{
		ClientID:     cfg.MetaAppID,
		ClientSecret: cfg.MetaAppSecret,
		RedirectURL:  strings.TrimRight(cfg.OAuthRedirectBase, "/") + "/api/v1/meta/callback",
		Scopes:       metaOAuthScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://www.facebook.com/v18.0/dialog/oauth",
			TokenURL: "https://graph.facebook.com/v18.0/oauth/access_token",
		},
	}
}

// OAuthRedirect returns the Meta authorization URL with a one-time state.
func (cc *ConnectionController) OAuthRedirect(ctx *gin.Context) {
	cfg := metaOAuthConfig()
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		utils.Error(ctx, http.StatusServiceUnavailable, 50310, "meta oauth is not configured")
		return
	}

	state := uuid.NewString()
	utils.SaveState(state, 10*time.Minute)

	utils.Success(ctx, gin.H{
		"authorization_url": cfg.AuthCodeURL(state),
		"state":             state,
	})
}

// OAuthCallback exchanges the authorization code and returns the pages the
// user manages, so the client can choose which ones to link.
func (cc *ConnectionController) OAuthCallback(ctx *gin.Context) {
	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" {
		utils.Error(ctx, http.StatusBadRequest, 40005, "missing code or state")
		return
	}
	if !utils.ConsumeState(state) {
		utils.Error(ctx, http.StatusBadRequest, 40006, "invalid or expired state")
		return
	}

	token, err := metaOAuthConfig().Exchange(context.Background(), code)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40007, "failed to exchange code")
		return
	}

	pages, err := cc.graph.FetchPages(ctx.Request.Context(), token.AccessToken)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("meta page discovery failed: %v", err)
		}
		utils.Error(ctx, http.StatusBadGateway, 50201, "failed to list pages")
		return
	}

	utils.Success(ctx, gin.H{"pages": pageResponses(pages)})
}

// List returns the calling user's linked pages.
func (cc *ConnectionController) List(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "not authenticated")
		return
	}

	conns, err := models.ListConnections(cc.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list connections")
		return
	}
	utils.Success(ctx, gin.H{"connections": conns})
}

// Save replaces the user's linked pages with the submitted set. The
// previous set is discarded, which keeps repeated OAuth runs idempotent.
func (cc *ConnectionController) Save(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "not authenticated")
		return
	}

	type pageInput struct {
		PageID             string `json:"page_id" binding:"required"`
		PageName           string `json:"page_name"`
		AccessToken        string `json:"access_token" binding:"required"`
		InstagramAccountID string `json:"instagram_account_id"`
		InstagramUsername  string `json:"instagram_username"`
	}
	var req struct {
		Pages []pageInput `json:"pages" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}
	if len(req.Pages) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40011, "at least one page is required")
		return
	}

	conns := make([]models.Connection, 0, len(req.Pages))
	seen := map[string]struct{}{}
	for _, p := range req.Pages {
		if _, dup := seen[p.PageID]; dup {
			continue
		}
		seen[p.PageID] = struct{}{}
		conns = append(conns, models.Connection{
			PageID:             p.PageID,
			PageName:           utils.SanitizeText(p.PageName),
			AccessToken:        p.AccessToken,
			InstagramAccountID: p.InstagramAccountID,
			InstagramUsername:  p.InstagramUsername,
		})
	}

	if err := models.ReplaceConnections(cc.db, userID, conns); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to save connections")
		return
	}

	saved, err := models.ListConnections(cc.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list connections")
		return
	}
	utils.Success(ctx, gin.H{"connections": saved})
}

// RequestDisconnect issues a short-lived confirmation ticket. Disconnecting
// removes every linked page, so it is gated behind a second call.
func (cc *ConnectionController) RequestDisconnect(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "not authenticated")
		return
	}

	ticket := utils.IssueTicket(disconnectScopeFor(userID), 5*time.Minute)
	utils.Success(ctx, gin.H{
		"confirm_token": ticket,
		"expires_in":    int((5 * time.Minute).Seconds()),
	})
}

// ConfirmDisconnect consumes the ticket and removes all linked pages.
// Previously collected statistics are kept.
func (cc *ConnectionController) ConfirmDisconnect(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "not authenticated")
		return
	}

	var req struct {
		ConfirmToken string `json:"confirm_token" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid request payload")
		return
	}
	if !utils.ConsumeTicket(disconnectScopeFor(userID), req.ConfirmToken) {
		utils.Error(ctx, http.StatusBadRequest, 40013, "invalid or expired confirmation token")
		return
	}

	if err := models.RemoveConnections(cc.db, userID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to remove connections")
		return
	}
	utils.Success(ctx, gin.H{"message": "disconnected"})
}

func disconnectScopeFor(userID uint) string {
	return disconnectTicketScope + ":" + strconv.FormatUint(uint64(userID), 10)
}

func pageResponses(pages []meta.Page) []gin.H {
	out := make([]gin.H, 0, len(pages))
	for _, p := range pages {
		item := gin.H{
			"page_id":      p.ID,
			"page_name":    p.Name,
			"access_token": p.AccessToken,
		}
		if p.Instagram != nil {
			item["instagram_account_id"] = p.Instagram.ID
			item["instagram_username"] = p.Instagram.Username
		}
		out = append(out, item)
	}
	return out
}
