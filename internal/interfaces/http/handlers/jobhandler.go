package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/utils"
)

// sweepUseCase is a reconciliation pass that reports how many clients it acted on.
type sweepUseCase interface {
	Execute(ctx context.Context) (int, error)
}

// Job names accepted by POST /api/v1/jobs/:job.
const (
	JobExpire  = "expire"
	JobNotify  = "notify"
	JobStorage = "storage"
)

// JobHandler triggers the lifecycle sweeps on demand.
type JobHandler struct {
	jobs   map[string]sweepUseCase
	logger logger.Interface
}

func NewJobHandler(expire, notify, storage sweepUseCase, logger logger.Interface) *JobHandler {
	return &JobHandler{
		jobs: map[string]sweepUseCase{
			JobExpire:  expire,
			JobNotify:  notify,
			JobStorage: storage,
		},
		logger: logger,
	}
}

func (h *JobHandler) RunJob(c *gin.Context) {
	name := c.Param("job")
	job, ok := h.jobs[name]
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("unknown job", name))
		return
	}

	count, err := job.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("manual job run failed", "job", name, "processed", count, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("manual job run finished", "job", name, "processed", count)
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"count": count})
}
