package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/saasportal/internal/application/server/usecases"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/id"
	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/utils"
)

type ServerHandler struct {
	createServerUC       createServerUseCase
	updateServerUC       updateServerUseCase
	updateServerStatusUC updateServerStatusUseCase
	getServerUC          getServerUseCase
	listServersUC        listServersUseCase
	deleteServerUC       deleteServerUseCase
	logger               logger.Interface
}

func NewServerHandler(
	createServerUC createServerUseCase,
	updateServerUC updateServerUseCase,
	updateServerStatusUC updateServerStatusUseCase,
	getServerUC getServerUseCase,
	listServersUC listServersUseCase,
	deleteServerUC deleteServerUseCase,
	logger logger.Interface,
) *ServerHandler {
	return &ServerHandler{
		createServerUC:       createServerUC,
		updateServerUC:       updateServerUC,
		updateServerStatusUC: updateServerStatusUC,
		getServerUC:          getServerUC,
		listServersUC:        listServersUC,
		deleteServerUC:       deleteServerUC,
		logger:               logger,
	}
}

type CreateServerRequest struct {
	Domain   string `json:"domain" binding:"required"`
	Scheme   string `json:"scheme" binding:"omitempty,oneof=http https"`
	Host     string `json:"host"`
	Provider string `json:"provider"`
	Secret   string `json:"secret"`
	Sequence int    `json:"sequence"`
}

type UpdateServerRequest struct {
	Scheme   *string `json:"scheme" binding:"omitempty,oneof=http https"`
	Host     *string `json:"host"`
	Provider *string `json:"provider"`
	Secret   *string `json:"secret"`
	Sequence *int    `json:"sequence"`
}

type UpdateServerStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

func (h *ServerHandler) CreateServer(c *gin.Context) {
	var req CreateServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create server", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.createServerUC.Execute(c.Request.Context(), usecases.CreateServerCommand{
		Domain:   req.Domain,
		Scheme:   req.Scheme,
		Host:     req.Host,
		Provider: req.Provider,
		Secret:   req.Secret,
		Sequence: req.Sequence,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Server registered successfully")
}

func (h *ServerHandler) UpdateServer(c *gin.Context) {
	sid, err := parseServerSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update server", "server_sid", sid, "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.updateServerUC.Execute(c.Request.Context(), usecases.UpdateServerCommand{
		SID:      sid,
		Scheme:   req.Scheme,
		Host:     req.Host,
		Provider: req.Provider,
		Secret:   req.Secret,
		Sequence: req.Sequence,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Server updated successfully", result)
}

func (h *ServerHandler) UpdateServerStatus(c *gin.Context) {
	sid, err := parseServerSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateServerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.updateServerStatusUC.Execute(c.Request.Context(), usecases.UpdateServerStatusCommand{
		SID:    sid,
		Active: req.Status == "active",
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Server status updated", result)
}

func (h *ServerHandler) GetServer(c *gin.Context) {
	sid, err := parseServerSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getServerUC.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *ServerHandler) ListServers(c *gin.Context) {
	pagination := utils.ParsePagination(c)
	query := usecases.ListServersQuery{Page: pagination.Page, PageSize: pagination.PageSize}

	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("active must be a boolean", raw))
			return
		}
		query.Active = &active
	}

	result, err := h.listServersUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Servers, result.Total, query.Page, query.PageSize)
}

func (h *ServerHandler) DeleteServer(c *gin.Context) {
	sid, err := parseServerSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteServerUC.Execute(c.Request.Context(), sid); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func parseServerSID(c *gin.Context) (string, error) {
	return utils.ParseSID(c, id.PrefixServer, "server")
}
