package handlers

import (
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	clientusecases "github.com/orris-inc/saasportal/internal/application/client/usecases"
	planusecases "github.com/orris-inc/saasportal/internal/application/plan/usecases"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

const (
	portalLoginPath  = "/web/login"
	portalSignupPath = "/web/signup"
	portalAddPath    = "/portal/add_new_client"
)

// PortalPages are the redirect targets used when a signup is refused by quota.
type PortalPages struct {
	MaximumDB      string
	MaximumTrialDB string
}

// PortalHandler serves the browser-facing signup endpoints. Identity comes
// from the portal user middleware; there is no session handling here.
type PortalHandler struct {
	createClient createClientUseCase
	checkName    checkNameUseCase
	pages        PortalPages
	logger       logger.Interface
}

func NewPortalHandler(createClient createClientUseCase, checkName checkNameUseCase, pages PortalPages, logger logger.Interface) *PortalHandler {
	return &PortalHandler{
		createClient: createClient,
		checkName:    checkName,
		pages:        pages,
		logger:       logger,
	}
}

type TrialCheckRequest struct {
	DBName string `json:"dbname" binding:"required"`
	Domain string `json:"domain"`
}

// AddNewClient handles GET /portal/add_new_client.
// Query: dbname, plan_id, trial, domain (server sid), redirect_to_signup.
func (h *PortalHandler) AddNewClient(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		c.Redirect(http.StatusFound, loginRedirect(c))
		return
	}

	dbname := ""
	if raw := c.Query("dbname"); raw != "" {
		full, err := h.checkName.FullName(c.Request.Context(), raw, c.Query("domain"))
		if err != nil {
			h.logger.Warnw("signup rejected", "dbname", raw, "error", err)
			c.Redirect(http.StatusFound, "/")
			return
		}
		dbname = full
	}

	trial, _ := strconv.ParseBool(c.Query("trial"))
	_, err := h.createClient.Execute(c.Request.Context(), planusecases.CreateClientCommand{
		PlanSID: c.Query("plan_id"),
		DBName:  dbname,
		UserID:  userID,
		Trial:   trial,
	})
	if err != nil {
		var quota *plan.QuotaExceededError
		if stderrors.As(err, &quota) {
			h.logger.Infow("signup refused by quota", "user_id", *userID, "kind", quota.Kind)
			c.Redirect(http.StatusFound, h.quotaPage(quota.Kind))
			return
		}
		h.logger.Errorw("signup failed", "user_id", *userID, "dbname", dbname, "error", err)
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.Redirect(http.StatusFound, portalLoginPath)
}

// TrialCheck handles POST /portal/trial_check.
func (h *PortalHandler) TrialCheck(c *gin.Context) {
	var req TrialCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"error": gin.H{"msg": "dbname is required"}})
		return
	}

	result, err := h.checkName.Execute(c.Request.Context(), clientusecases.CheckNameCommand{
		DBName:    req.DBName,
		ServerSID: req.Domain,
	})
	if err != nil {
		h.logger.Warnw("trial check failed", "dbname", req.DBName, "error", err)
		c.JSON(http.StatusOK, gin.H{"error": gin.H{"msg": err.Error()}})
		return
	}
	if !result.Available {
		c.JSON(http.StatusOK, gin.H{"error": gin.H{"msg": "database already taken"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": 1})
}

func (h *PortalHandler) quotaPage(kind plan.QuotaKind) string {
	page := h.pages.MaximumDB
	if kind == plan.QuotaTrial {
		page = h.pages.MaximumTrialDB
	}
	if page == "" {
		return "/"
	}
	return page
}

// loginRedirect sends anonymous visitors to login (or signup) and back here afterwards.
func loginRedirect(c *gin.Context) string {
	target := portalLoginPath
	query := c.Request.URL.Query()
	if signup, _ := strconv.ParseBool(query.Get("redirect_to_signup")); signup {
		target = portalSignupPath
	}
	query.Del("redirect_to_signup")

	back := portalAddPath
	if encoded := query.Encode(); encoded != "" {
		back += "?" + encoded
	}
	return target + "?" + url.Values{"redirect": []string{back}}.Encode()
}
