package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/infrastructure/persistence/models"
	"github.com/orris-inc/saasportal/internal/shared/mapper"
)

// ClientMapper converts clients and template databases. Both write the
// Active column from the entity state.
type ClientMapper interface {
	ToEntity(model *models.ClientModel) (*client.Client, error)
	ToModel(entity *client.Client) (*models.ClientModel, error)
	ToEntities(models []*models.ClientModel) ([]*client.Client, error)
	DatabaseToEntity(model *models.DatabaseModel) (*client.Database, error)
	DatabaseToModel(entity *client.Database) (*models.DatabaseModel, error)
}

type clientMapper struct{}

func NewClientMapper() ClientMapper {
	return &clientMapper{}
}

func (m *clientMapper) ToEntity(model *models.ClientModel) (*client.Client, error) {
	if model == nil {
		return nil, nil
	}

	remote, err := decodeRemoteState(model.RemoteState)
	if err != nil {
		return nil, err
	}

	entity, err := client.ReconstructClient(client.ClientSnapshot{
		ID:                   model.ID,
		SID:                  model.SID,
		Name:                 model.Name,
		ClientID:             model.ClientID,
		ServerID:             model.ServerID,
		State:                client.State(model.State),
		Password:             model.Password,
		RemoteState:          remote,
		PartnerID:            model.PartnerID,
		PlanID:               model.PlanID,
		UserID:               model.UserID,
		ExpirationDatetime:   model.ExpirationDatetime,
		Expired:              model.Expired,
		NotificationSent:     model.NotificationSent,
		StorageExceed:        model.StorageExceed,
		BlockOnExpiration:    model.BlockOnExpiration,
		BlockOnStorageExceed: model.BlockOnStorageExceed,
		Trial:                model.Trial,
		TrialHours:           model.TrialHours,
		MaxUsers:             model.MaxUsers,
		FileStorage:          model.FileStorage,
		DBStorage:            model.DBStorage,
		TotalStorageLimit:    model.TotalStorageLimit,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct client entity: %w", err)
	}
	return entity, nil
}

func (m *clientMapper) ToModel(entity *client.Client) (*models.ClientModel, error) {
	if entity == nil {
		return nil, nil
	}

	remote, err := encodeRemoteState(entity.RemoteState())
	if err != nil {
		return nil, err
	}

	return &models.ClientModel{
		ID:                   entity.ID(),
		SID:                  entity.SID(),
		Name:                 entity.Name(),
		ClientID:             entity.ClientID(),
		ServerID:             entity.ServerID(),
		State:                entity.State().String(),
		Active:               entity.Active(),
		Password:             entity.Password(),
		RemoteState:          remote,
		PartnerID:            entity.PartnerID(),
		PlanID:               entity.PlanID(),
		UserID:               entity.UserID(),
		ExpirationDatetime:   entity.ExpirationDatetime(),
		Expired:              entity.Expired(),
		NotificationSent:     entity.NotificationSent(),
		StorageExceed:        entity.StorageExceed(),
		BlockOnExpiration:    entity.BlockOnExpiration(),
		BlockOnStorageExceed: entity.BlockOnStorageExceed(),
		Trial:                entity.Trial(),
		TrialHours:           entity.TrialHours(),
		MaxUsers:             entity.MaxUsers(),
		FileStorage:          entity.FileStorage(),
		DBStorage:            entity.DBStorage(),
		TotalStorageLimit:    entity.TotalStorageLimit(),
		CreatedAt:            entity.CreatedAt(),
		UpdatedAt:            entity.UpdatedAt(),
	}, nil
}

func (m *clientMapper) ToEntities(items []*models.ClientModel) ([]*client.Client, error) {
	return mapper.MapRows(items, m.ToEntity, func(c *models.ClientModel) uint { return c.ID })
}

func (m *clientMapper) DatabaseToEntity(model *models.DatabaseModel) (*client.Database, error) {
	if model == nil {
		return nil, nil
	}

	remote, err := decodeRemoteState(model.RemoteState)
	if err != nil {
		return nil, err
	}

	entity, err := client.ReconstructDatabase(model.ID, model.SID, model.Name, model.ClientID,
		model.ServerID, client.State(model.State), model.Password, remote, model.CreatedAt, model.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct database entity: %w", err)
	}
	return entity, nil
}

func (m *clientMapper) DatabaseToModel(entity *client.Database) (*models.DatabaseModel, error) {
	if entity == nil {
		return nil, nil
	}

	remote, err := encodeRemoteState(entity.RemoteState())
	if err != nil {
		return nil, err
	}

	return &models.DatabaseModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		Name:        entity.Name(),
		ClientID:    entity.ClientID(),
		ServerID:    entity.ServerID(),
		State:       entity.State().String(),
		Active:      entity.Active(),
		Password:    entity.Password(),
		RemoteState: remote,
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}, nil
}

func decodeRemoteState(raw datatypes.JSON) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var state map[string]any
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal remote state: %w", err)
	}
	return state, nil
}

func encodeRemoteState(state map[string]any) (datatypes.JSON, error) {
	if len(state) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal remote state: %w", err)
	}
	return data, nil
}
