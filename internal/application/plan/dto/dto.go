// Package dto holds the plan shapes returned by the application layer.
package dto

import (
	"time"

	"github.com/orris-inc/saasportal/internal/domain/plan"
)

type PlanDTO struct {
	SID                   string    `json:"id"`
	Name                  string    `json:"name"`
	Summary               string    `json:"summary,omitempty"`
	WebsiteDescription    string    `json:"website_description,omitempty"`
	DescriptionHTML       string    `json:"description_html,omitempty"`
	DBNameTemplate        string    `json:"dbname_template,omitempty"`
	MaxUsers              int       `json:"max_users"`
	TotalStorageLimit     int64     `json:"total_storage_limit"`
	BlockOnExpiration     bool      `json:"block_on_expiration"`
	BlockOnStorageExceed  bool      `json:"block_on_storage_exceed"`
	MaxDBsPerPartner      int       `json:"max_dbs_per_partner"`
	MaxTrialDBsPerPartner int       `json:"max_trial_dbs_per_partner"`
	ExpirationHours       int       `json:"expiration_hours"`
	GracePeriodDays       int       `json:"grace_period_days"`
	Lang                  string    `json:"lang,omitempty"`
	TZ                    string    `json:"tz,omitempty"`
	Demo                  bool      `json:"demo"`
	Sequence              int       `json:"sequence"`
	ServerSID             string    `json:"server_id,omitempty"`
	TemplateSID           string    `json:"template_id,omitempty"`
	TemplateName          string    `json:"template_name,omitempty"`
	State                 string    `json:"state"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Refs carries what a plan only knows by internal ID.
type Refs struct {
	ServerSID    string
	TemplateSID  string
	TemplateName string
}

func ToPlanDTO(p *plan.Plan, refs Refs, descriptionHTML string) *PlanDTO {
	if p == nil {
		return nil
	}
	defaults := p.Defaults()
	return &PlanDTO{
		SID:                   p.SID(),
		Name:                  p.Name(),
		Summary:               p.Summary(),
		WebsiteDescription:    p.WebsiteDescription(),
		DescriptionHTML:       descriptionHTML,
		DBNameTemplate:        p.DBNameTemplate(),
		MaxUsers:              defaults.MaxUsers,
		TotalStorageLimit:     defaults.TotalStorageLimit,
		BlockOnExpiration:     defaults.BlockOnExpiration,
		BlockOnStorageExceed:  defaults.BlockOnStorageExceed,
		MaxDBsPerPartner:      p.MaxDBsPerPartner(),
		MaxTrialDBsPerPartner: p.MaxTrialDBsPerPartner(),
		ExpirationHours:       p.ExpirationHours(),
		GracePeriodDays:       p.GracePeriodDays(),
		Lang:                  p.Lang(),
		TZ:                    p.TZ(),
		Demo:                  p.Demo(),
		Sequence:              p.Sequence(),
		ServerSID:             refs.ServerSID,
		TemplateSID:           refs.TemplateSID,
		TemplateName:          refs.TemplateName,
		State:                 string(p.State()),
		CreatedAt:             p.CreatedAt(),
		UpdatedAt:             p.UpdatedAt(),
	}
}

// PublicPlanDTO is what the signup page shows.
type PublicPlanDTO struct {
	SID             string `json:"id"`
	Name            string `json:"name"`
	Summary         string `json:"summary,omitempty"`
	DescriptionHTML string `json:"description_html,omitempty"`
	TrialHours      int    `json:"trial_hours"`
	MaxUsers        int    `json:"max_users"`
}

func ToPublicPlanDTO(p *plan.Plan, descriptionHTML string) *PublicPlanDTO {
	return &PublicPlanDTO{
		SID:             p.SID(),
		Name:            p.Name(),
		Summary:         p.Summary(),
		DescriptionHTML: descriptionHTML,
		TrialHours:      p.ExpirationHours(),
		MaxUsers:        p.Defaults().MaxUsers,
	}
}

type ListPlansResult struct {
	Plans []*PlanDTO
	Total int64
}

// TemplateResultDTO reports a template build or deletion.
type TemplateResultDTO struct {
	Plan          *PlanDTO `json:"plan"`
	TemplateSID   string   `json:"template_id"`
	TemplateState string   `json:"template_state"`
}
