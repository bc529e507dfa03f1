package mappers

import (
	"fmt"

	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/models"
	"github.com/orris-inc/saasportal/internal/shared/mapper"
)

// ServerMapper converts between server entities and persistence models.
type ServerMapper interface {
	ToEntity(model *models.ServerModel) (*server.Server, error)
	ToModel(entity *server.Server) *models.ServerModel
	ToEntities(models []*models.ServerModel) ([]*server.Server, error)
}

type serverMapper struct{}

func NewServerMapper() ServerMapper {
	return &serverMapper{}
}

func (m *serverMapper) ToEntity(model *models.ServerModel) (*server.Server, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := server.ReconstructServer(
		model.ID,
		model.SID,
		model.Domain,
		server.Scheme(model.Scheme),
		model.Host,
		model.Provider,
		model.Secret,
		model.Active,
		model.Sequence,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct server entity: %w", err)
	}
	return entity, nil
}

func (m *serverMapper) ToModel(entity *server.Server) *models.ServerModel {
	if entity == nil {
		return nil
	}
	return &models.ServerModel{
		ID:        entity.ID(),
		SID:       entity.SID(),
		Domain:    entity.Domain(),
		Scheme:    entity.Scheme().String(),
		Host:      entity.Host(),
		Provider:  entity.Provider(),
		Secret:    entity.Secret(),
		Active:    entity.IsActive(),
		Sequence:  entity.Sequence(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

func (m *serverMapper) ToEntities(items []*models.ServerModel) ([]*server.Server, error) {
	return mapper.MapRows(items, m.ToEntity, func(s *models.ServerModel) uint { return s.ID })
}
