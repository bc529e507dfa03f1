package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	planusecases "github.com/orris-inc/saasportal/internal/application/plan/usecases"
	"github.com/orris-inc/saasportal/internal/shared/id"
	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/utils"
)

type PlanHandler struct {
	createPlanUC     createPlanUseCase
	updatePlanUC     updatePlanUseCase
	getPlanUC        getPlanUseCase
	listPlansUC      listPlansUseCase
	getPublicPlansUC getPublicPlansUseCase
	buildTemplateUC  buildTemplateUseCase
	deleteTemplateUC deleteTemplateUseCase
	generateNameUC   generateNameUseCase
	logger           logger.Interface
}

func NewPlanHandler(
	createPlanUC createPlanUseCase,
	updatePlanUC updatePlanUseCase,
	getPlanUC getPlanUseCase,
	listPlansUC listPlansUseCase,
	getPublicPlansUC getPublicPlansUseCase,
	buildTemplateUC buildTemplateUseCase,
	deleteTemplateUC deleteTemplateUseCase,
	generateNameUC generateNameUseCase,
	logger logger.Interface,
) *PlanHandler {
	return &PlanHandler{
		createPlanUC:     createPlanUC,
		updatePlanUC:     updatePlanUC,
		getPlanUC:        getPlanUC,
		listPlansUC:      listPlansUC,
		getPublicPlansUC: getPublicPlansUC,
		buildTemplateUC:  buildTemplateUC,
		deleteTemplateUC: deleteTemplateUC,
		generateNameUC:   generateNameUC,
		logger:           logger,
	}
}

// PlanRequest carries the editable plan fields for create and update.
type PlanRequest struct {
	Name                  string `json:"name" binding:"required"`
	Summary               string `json:"summary"`
	WebsiteDescription    string `json:"website_description"`
	DBNameTemplate        string `json:"dbname_template"`
	MaxUsers              int    `json:"max_users" binding:"gte=0"`
	TotalStorageLimit     int64  `json:"total_storage_limit" binding:"gte=0"`
	BlockOnExpiration     bool   `json:"block_on_expiration"`
	BlockOnStorageExceed  bool   `json:"block_on_storage_exceed"`
	MaxDBsPerPartner      int    `json:"max_dbs_per_partner" binding:"gte=0"`
	MaxTrialDBsPerPartner int    `json:"max_trial_dbs_per_partner" binding:"gte=0"`
	ExpirationHours       int    `json:"expiration_hours" binding:"gte=0"`
	GracePeriodDays       int    `json:"grace_period_days" binding:"gte=0"`
	Lang                  string `json:"lang"`
	TZ                    string `json:"tz"`
	Demo                  bool   `json:"demo"`
	Sequence              int    `json:"sequence"`
	ServerID              string `json:"server_id"`
}

func (r PlanRequest) toInput() planusecases.PlanInput {
	return planusecases.PlanInput{
		Name:                  r.Name,
		Summary:               r.Summary,
		WebsiteDescription:    r.WebsiteDescription,
		DBNameTemplate:        r.DBNameTemplate,
		MaxUsers:              r.MaxUsers,
		TotalStorageLimit:     r.TotalStorageLimit,
		BlockOnExpiration:     r.BlockOnExpiration,
		BlockOnStorageExceed:  r.BlockOnStorageExceed,
		MaxDBsPerPartner:      r.MaxDBsPerPartner,
		MaxTrialDBsPerPartner: r.MaxTrialDBsPerPartner,
		ExpirationHours:       r.ExpirationHours,
		GracePeriodDays:       r.GracePeriodDays,
		Lang:                  r.Lang,
		TZ:                    r.TZ,
		Demo:                  r.Demo,
		Sequence:              r.Sequence,
		ServerSID:             r.ServerID,
	}
}

type CreatePlanRequest struct {
	PlanRequest
	TemplateName string `json:"template_name"`
}

type BuildTemplateRequest struct {
	Addons []string `json:"addons"`
}

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create plan", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.createPlanUC.Execute(c.Request.Context(), planusecases.CreatePlanCommand{
		PlanInput:    req.toInput(),
		TemplateName: req.TemplateName,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Plan created successfully")
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	sid, err := parsePlanSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update plan", "plan_sid", sid, "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.updatePlanUC.Execute(c.Request.Context(), planusecases.UpdatePlanCommand{
		PlanSID:   sid,
		PlanInput: req.toInput(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan updated successfully", result)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	sid, err := parsePlanSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getPlanUC.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	pagination := utils.ParsePagination(c)
	query := planusecases.ListPlansQuery{
		State:    c.Query("state"),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}

	result, err := h.listPlansUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Plans, result.Total, query.Page, query.PageSize)
}

func (h *PlanHandler) GetPublicPlans(c *gin.Context) {
	result, err := h.getPublicPlansUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// BuildTemplate creates the plan's template database on its pinned server.
func (h *PlanHandler) BuildTemplate(c *gin.Context) {
	sid, err := parsePlanSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req BuildTemplateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, utils.BindError(err))
			return
		}
	}

	result, err := h.buildTemplateUC.Execute(c.Request.Context(), planusecases.BuildTemplateCommand{
		PlanSID: sid,
		Addons:  req.Addons,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Template database built", result)
}

func (h *PlanHandler) DeleteTemplate(c *gin.Context) {
	sid, err := parsePlanSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.deleteTemplateUC.Execute(c.Request.Context(), planusecases.DeleteTemplateCommand{
		PlanSID: sid,
		Force:   c.Query("force") == "true",
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Template database deleted", result)
}

// GenerateName reserves the next database name from the plan's template.
func (h *PlanHandler) GenerateName(c *gin.Context) {
	sid, err := parsePlanSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	name, err := h.generateNameUC.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"name": name}, "Name generated")
}

func parsePlanSID(c *gin.Context) (string, error) {
	return utils.ParseSID(c, id.PrefixPlan, "plan")
}
