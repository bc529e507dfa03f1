package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	clientusecases "github.com/orris-inc/saasportal/internal/application/client/usecases"
	planusecases "github.com/orris-inc/saasportal/internal/application/plan/usecases"
	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/shared/biztime"
	"github.com/orris-inc/saasportal/internal/shared/constants"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/id"
	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/utils"
)

// ClientUseCases groups the use cases behind ClientHandler.
type ClientUseCases struct {
	Create           createClientUseCase
	Get              getClientUseCase
	List             listClientsUseCase
	Provision        provisionClientUseCase
	Duplicate        duplicateClientUseCase
	Delete           deleteClientUseCase
	Upgrade          upgradeClientUseCase
	ChangeExpiration changeExpirationUseCase
	SyncParams       syncClientParamsUseCase
	ReportStorage    reportStorageUseCase
}

type ClientHandler struct {
	ucs    ClientUseCases
	logger logger.Interface
}

func NewClientHandler(ucs ClientUseCases, logger logger.Interface) *ClientHandler {
	return &ClientHandler{ucs: ucs, logger: logger}
}

type CreateClientRequest struct {
	PlanID     string `json:"plan_id"`
	DBName     string `json:"dbname"`
	ClientID   string `json:"client_id"`
	PartnerID  *uint  `json:"partner_id"`
	UserID     *uint  `json:"user_id"`
	Trial      bool   `json:"trial"`
	NotifyUser bool   `json:"notify_user"`

	MaxUsers             *int   `json:"max_users" binding:"omitempty,gte=0"`
	TotalStorageLimit    *int64 `json:"total_storage_limit" binding:"omitempty,gte=0"`
	BlockOnExpiration    *bool  `json:"block_on_expiration"`
	BlockOnStorageExceed *bool  `json:"block_on_storage_exceed"`
}

type ProvisionClientRequest struct {
	OwnerUserID *uint `json:"owner_user_id"`
}

type DuplicateClientRequest struct {
	DBName          string `json:"dbname" binding:"required"`
	PartnerID       *uint  `json:"partner_id"`
	ExpirationHours int    `json:"expiration_hours" binding:"gte=0"`
	OwnerUserID     *uint  `json:"owner_user_id"`
}

type UpgradeClientRequest struct {
	Params []UpgradeParamRequest `json:"params" binding:"required,min=1,dive"`
}

type UpgradeParamRequest struct {
	Key    string `json:"key" binding:"required"`
	Value  any    `json:"value"`
	Hidden bool   `json:"hidden"`
}

// ChangeExpirationRequest takes "2006-01-02 15:04:05" (UTC) or RFC 3339; null clears it.
type ChangeExpirationRequest struct {
	ExpirationDatetime *string `json:"expiration_datetime"`
}

type ReportStorageRequest struct {
	FileStorage int64 `json:"file_storage" binding:"gte=0"`
	DBStorage   int64 `json:"db_storage" binding:"gte=0"`
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create client", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	userID := req.UserID
	if userID == nil {
		userID = currentUserID(c)
	}

	result, err := h.ucs.Create.Execute(c.Request.Context(), planusecases.CreateClientCommand{
		PlanSID:              req.PlanID,
		DBName:               req.DBName,
		ClientID:             req.ClientID,
		PartnerID:            req.PartnerID,
		UserID:               userID,
		Trial:                req.Trial,
		NotifyUser:           req.NotifyUser,
		MaxUsers:             req.MaxUsers,
		TotalStorageLimit:    req.TotalStorageLimit,
		BlockOnExpiration:    req.BlockOnExpiration,
		BlockOnStorageExceed: req.BlockOnStorageExceed,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Client created successfully")
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	sid, err := parseClientSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.ucs.Get.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	query, err := parseListClientsQuery(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.ucs.List.Execute(c.Request.Context(), *query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Clients, result.Total, query.Page, query.PageSize)
}

func (h *ClientHandler) ProvisionClient(c *gin.Context) {
	sid, err := parseClientSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ProvisionClientRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, utils.BindError(err))
			return
		}
	}

	result, err := h.ucs.Provision.Execute(c.Request.Context(), clientusecases.ProvisionClientCommand{
		ClientSID:   sid,
		OwnerUserID: req.OwnerUserID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Client provisioned", result)
}

func (h *ClientHandler) DuplicateClient(c *gin.Context) {
	sid, err := parseClientSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req DuplicateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.ucs.Duplicate.Execute(c.Request.Context(), clientusecases.DuplicateClientCommand{
		SourceSID:       sid,
		DBName:          req.DBName,
		PartnerID:       req.PartnerID,
		ExpirationHours: req.ExpirationHours,
		OwnerUserID:     req.OwnerUserID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Client duplicated")
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	sid, err := parseClientSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	force, _ := strconv.ParseBool(c.Query("force"))
	if err := h.ucs.Delete.Execute(c.Request.Context(), clientusecases.DeleteClientCommand{
		ClientSID: sid,
		Force:     force,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *ClientHandler) UpgradeClient(c *gin.Context) {
	sid, err := parseClientSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpgradeClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	params := make([]command.UpgradeParam, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, command.UpgradeParam{Key: p.Key, Value: p.Value, Hidden: p.Hidden})
	}

	extra, err := h.ucs.Upgrade.Execute(c.Request.Context(), clientusecases.UpgradeClientCommand{
		ClientSID: sid,
		Params:    params,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Client upgraded", extra)
}

func (h *ClientHandler) ChangeExpiration(c *gin.Context) {
	sid, err := parseClientSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ChangeExpirationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	var expiration *time.Time
	if req.ExpirationDatetime != nil && *req.ExpirationDatetime != "" {
		t, err := parseDatetime(*req.ExpirationDatetime)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
		expiration = &t
	}

	result, err := h.ucs.ChangeExpiration.Execute(c.Request.Context(), clientusecases.ChangeExpirationCommand{
		ClientSID:  sid,
		Expiration: expiration,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expiration updated", result)
}

// SyncParams resends the client's limits to its instance.
func (h *ClientHandler) SyncParams(c *gin.Context) {
	sid, err := parseClientSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.ucs.SyncParams.Execute(c.Request.Context(), sid); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Parameters sent", nil)
}

func (h *ClientHandler) ReportStorage(c *gin.Context) {
	sid, err := parseClientSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ReportStorageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.ucs.ReportStorage.Execute(c.Request.Context(), clientusecases.ReportStorageCommand{
		ClientSID:   sid,
		FileStorage: req.FileStorage,
		DBStorage:   req.DBStorage,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func parseClientSID(c *gin.Context) (string, error) {
	return utils.ParseSID(c, id.PrefixClient, "client")
}

func parseListClientsQuery(c *gin.Context) (*clientusecases.ListClientsQuery, error) {
	pagination := utils.ParsePagination(c)
	query := &clientusecases.ListClientsQuery{
		PlanSID:  c.Query("plan_id"),
		State:    c.Query("state"),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}

	if raw := c.Query("partner_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, errors.NewValidationError("partner_id must be a positive integer", raw)
		}
		partnerID := uint(v)
		query.PartnerID = &partnerID
	}
	for key, target := range map[string]**bool{"trial": &query.Trial, "expired": &query.Expired} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.NewValidationError(key+" must be a boolean", raw)
		}
		*target = &v
	}
	return query, nil
}

func parseDatetime(raw string) (time.Time, error) {
	if t, err := biztime.ParseServerDatetime(raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.NewValidationError("invalid expiration_datetime", raw)
	}
	return t.UTC(), nil
}

// currentUserID returns the portal user set by the user middleware, if any.
func currentUserID(c *gin.Context) *uint {
	v, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return nil
	}
	userID, ok := v.(uint)
	if !ok || userID == 0 {
		return nil
	}
	return &userID
}
