// Package dto holds the client shapes returned by the application layer.
package dto

import (
	"time"

	"github.com/orris-inc/saasportal/internal/domain/client"
)

type ClientDTO struct {
	SID                  string     `json:"id"`
	Name                 string     `json:"name"`
	ClientID             string     `json:"client_id"`
	State                string     `json:"state"`
	Active               bool       `json:"active"`
	Host                 string     `json:"host"`
	PublicURL            string     `json:"public_url,omitempty"`
	PartnerID            uint       `json:"partner_id"`
	PlanSID              string     `json:"plan_id,omitempty"`
	ServerSID            string     `json:"server_id,omitempty"`
	UserID               *uint      `json:"user_id,omitempty"`
	Trial                bool       `json:"trial"`
	TrialHours           int        `json:"trial_hours"`
	ExpirationDatetime   *time.Time `json:"expiration_datetime,omitempty"`
	Expired              bool       `json:"expired"`
	NotificationSent     bool       `json:"notification_sent"`
	StorageExceed        bool       `json:"storage_exceed"`
	BlockOnExpiration    bool       `json:"block_on_expiration"`
	BlockOnStorageExceed bool       `json:"block_on_storage_exceed"`
	MaxUsers             int        `json:"max_users"`
	FileStorage          int64      `json:"file_storage"`
	DBStorage            int64      `json:"db_storage"`
	TotalStorageLimit    int64      `json:"total_storage_limit"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Refs carries what the client record only knows by internal ID.
type Refs struct {
	PlanSID    string
	ServerSID  string
	Scheme     string
	BaseDomain string
}

func ToClientDTO(c *client.Client, refs Refs) *ClientDTO {
	if c == nil {
		return nil
	}

	d := &ClientDTO{
		SID:                  c.SID(),
		Name:                 c.Name(),
		ClientID:             c.ClientID(),
		State:                c.State().String(),
		Active:               c.Active(),
		Host:                 c.Host(refs.BaseDomain),
		PartnerID:            c.PartnerID(),
		PlanSID:              refs.PlanSID,
		ServerSID:            refs.ServerSID,
		UserID:               c.UserID(),
		Trial:                c.Trial(),
		TrialHours:           c.TrialHours(),
		ExpirationDatetime:   c.ExpirationDatetime(),
		Expired:              c.Expired(),
		NotificationSent:     c.NotificationSent(),
		StorageExceed:        c.StorageExceed(),
		BlockOnExpiration:    c.BlockOnExpiration(),
		BlockOnStorageExceed: c.BlockOnStorageExceed(),
		MaxUsers:             c.MaxUsers(),
		FileStorage:          c.FileStorage(),
		DBStorage:            c.DBStorage(),
		TotalStorageLimit:    c.TotalStorageLimit(),
		CreatedAt:            c.CreatedAt(),
		UpdatedAt:            c.UpdatedAt(),
	}
	if refs.ServerSID != "" {
		d.PublicURL = c.PublicURL(refs.Scheme, refs.BaseDomain)
	}
	return d
}

type ListClientsResult struct {
	Clients []*ClientDTO
	Total   int64
}

// ProvisionResultDTO is returned after a new_database command succeeded.
type ProvisionResultDTO struct {
	Client    *ClientDTO `json:"client"`
	PublicURL string     `json:"public_url"`
}
