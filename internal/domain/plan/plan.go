package plan

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/orris-inc/saasportal/internal/domain/client"
)

type State string

const (
	StateDraft     State = "draft"
	StateConfirmed State = "confirmed"
)

// NamePlaceholder is replaced by the next sequence value in DBNameTemplate.
const NamePlaceholder = "%i"

// Attributes are the administrator-editable fields of a plan.
type Attributes struct {
	Name                  string
	Summary               string
	WebsiteDescription    string
	DBNameTemplate        string
	Defaults              client.Limits
	MaxDBsPerPartner      int
	MaxTrialDBsPerPartner int
	ExpirationHours       int
	GracePeriodDays       int
	Lang                  string
	TZ                    string
	Demo                  bool
	Sequence              int
	ServerID              *uint
}

func (a *Attributes) normalize() error {
	a.Name = strings.TrimSpace(a.Name)
	a.DBNameTemplate = strings.TrimSpace(a.DBNameTemplate)
	if a.Name == "" {
		return ErrNameRequired
	}
	if a.MaxDBsPerPartner < 0 || a.MaxTrialDBsPerPartner < 0 || a.ExpirationHours < 0 ||
		a.GracePeriodDays < 0 || a.Defaults.MaxUsers < 0 || a.Defaults.TotalStorageLimit < 0 {
		return ErrNegativeLimit
	}
	if a.Lang != "" {
		// instance languages use underscores (en_US)
		if _, err := language.Parse(strings.ReplaceAll(a.Lang, "_", "-")); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidLang, a.Lang)
		}
	}
	if a.TZ != "" {
		if _, err := time.LoadLocation(a.TZ); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidTimezone, a.TZ)
		}
	}
	return nil
}

// Plan is a product offering that clients are created from.
type Plan struct {
	id                 uint
	sid                string
	attrs              Attributes
	templateDatabaseID *uint
	state              State
	createdAt          time.Time
	updatedAt          time.Time
}

// NewPlan creates a draft plan. It is confirmed once its template database is built.
func NewPlan(sid string, attrs Attributes) (*Plan, error) {
	if err := attrs.normalize(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Plan{
		sid:       sid,
		attrs:     attrs,
		state:     StateDraft,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructPlan(id uint, sid string, attrs Attributes, templateDatabaseID *uint, state State,
	createdAt, updatedAt time.Time) (*Plan, error) {
	if id == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	if state != StateDraft && state != StateConfirmed {
		return nil, fmt.Errorf("invalid plan state: %s", state)
	}
	return &Plan{
		id:                 id,
		sid:                sid,
		attrs:              attrs,
		templateDatabaseID: templateDatabaseID,
		state:              state,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

func (p *Plan) ID() uint                   { return p.id }
func (p *Plan) SID() string                { return p.sid }
func (p *Plan) Name() string               { return p.attrs.Name }
func (p *Plan) Summary() string            { return p.attrs.Summary }
func (p *Plan) WebsiteDescription() string { return p.attrs.WebsiteDescription }
func (p *Plan) DBNameTemplate() string     { return p.attrs.DBNameTemplate }
func (p *Plan) Defaults() client.Limits    { return p.attrs.Defaults }
func (p *Plan) MaxDBsPerPartner() int      { return p.attrs.MaxDBsPerPartner }
func (p *Plan) MaxTrialDBsPerPartner() int { return p.attrs.MaxTrialDBsPerPartner }
func (p *Plan) ExpirationHours() int       { return p.attrs.ExpirationHours }
func (p *Plan) GracePeriodDays() int       { return p.attrs.GracePeriodDays }
func (p *Plan) Lang() string               { return p.attrs.Lang }
func (p *Plan) TZ() string                 { return p.attrs.TZ }
func (p *Plan) Demo() bool                 { return p.attrs.Demo }
func (p *Plan) Sequence() int              { return p.attrs.Sequence }
func (p *Plan) ServerID() *uint            { return p.attrs.ServerID }
func (p *Plan) TemplateDatabaseID() *uint  { return p.templateDatabaseID }
func (p *Plan) State() State               { return p.state }
func (p *Plan) Attributes() Attributes     { return p.attrs }
func (p *Plan) CreatedAt() time.Time       { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time       { return p.updatedAt }
func (p *Plan) IsConfirmed() bool          { return p.state == StateConfirmed }

func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = id
	return nil
}

// Update replaces the editable fields. The state is not affected.
func (p *Plan) Update(attrs Attributes) error {
	if err := attrs.normalize(); err != nil {
		return err
	}
	p.attrs = attrs
	p.updatedAt = time.Now().UTC()
	return nil
}

func (p *Plan) AttachTemplate(databaseID uint) error {
	if p.templateDatabaseID != nil && *p.templateDatabaseID != databaseID {
		return ErrTemplateAlreadyDefined
	}
	p.templateDatabaseID = &databaseID
	p.updatedAt = time.Now().UTC()
	return nil
}

// SyncState recomputes the state from the template database state and
// reports whether it changed.
func (p *Plan) SyncState(templateState client.State) bool {
	next := StateDraft
	if templateState == client.StateTemplate {
		next = StateConfirmed
	}
	if next == p.state {
		return false
	}
	p.state = next
	p.updatedAt = time.Now().UTC()
	return true
}

func (p *Plan) EnsureConfirmed() error {
	if !p.IsConfirmed() {
		return fmt.Errorf("%w: %s", ErrPlanNotConfirmed, p.sid)
	}
	return nil
}

// QuotaLimit returns the applicable per-partner limit; zero means unlimited.
func (p *Plan) QuotaLimit(trial bool) (QuotaKind, int) {
	if trial {
		return QuotaTrial, p.attrs.MaxTrialDBsPerPartner
	}
	return QuotaNormal, p.attrs.MaxDBsPerPartner
}

// CheckQuota refuses a new database when current already reached the limit.
func (p *Plan) CheckQuota(trial bool, current int64) error {
	kind, limit := p.QuotaLimit(trial)
	if limit == 0 {
		return nil
	}
	if current >= int64(limit) {
		return &QuotaExceededError{Kind: kind, Limit: limit, Current: current}
	}
	return nil
}

// ExpirationFor computes the expiration of a client created at now. Trials
// live for ExpirationHours; other clients get the grace period, or none.
func (p *Plan) ExpirationFor(trial bool, now time.Time) *time.Time {
	var exp time.Time
	switch {
	case trial:
		exp = now.Add(time.Duration(p.attrs.ExpirationHours) * time.Hour)
	case p.attrs.GracePeriodDays > 0:
		exp = now.AddDate(0, 0, p.attrs.GracePeriodDays)
	default:
		return nil
	}
	exp = exp.UTC()
	return &exp
}

// GenerateName fills the name template with seq.
func (p *Plan) GenerateName(seq int64) (string, error) {
	if p.attrs.DBNameTemplate == "" {
		return "", ErrTemplateNotConfigured
	}
	return strings.ReplaceAll(p.attrs.DBNameTemplate, NamePlaceholder, strconv.FormatInt(seq, 10)), nil
}
