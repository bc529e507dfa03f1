package usecases

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientservices "github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/application/plan/dto"
	"github.com/orris-inc/saasportal/internal/application/testutil"
	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/shared/errors"
	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/services/markdown"
)

func newCommander(f *testutil.Fixture) *clientservices.Commander {
	return clientservices.NewCommander(f.Servers, f.Builder, f.Dispatcher, logger.NewNop())
}

// createPlanWithTemplate stores a draft plan pinned to a new server with a
// template database that was never built.
func createPlanWithTemplate(t *testing.T, f *testutil.Fixture) *dto.PlanDTO {
	t.Helper()
	srv := f.AddServer(t, "saas.example.com")
	uc := NewCreatePlanUseCase(f.Plans, f.Servers, f.Databases, f.Clients, markdown.NewRenderer(), logger.NewNop())
	result, err := uc.Execute(context.Background(), CreatePlanCommand{
		PlanInput: PlanInput{
			Name:               "Business",
			WebsiteDescription: "**Fast** hosting",
			Lang:               "de_DE",
			TZ:                 "UTC",
			Demo:               true,
			ServerSID:          srv.SID(),
		},
		TemplateName: "business-template",
	})
	require.NoError(t, err)
	return result
}

func TestCreatePlan(t *testing.T) {
	f := testutil.NewFixture()
	result := createPlanWithTemplate(t, f)

	assert.Equal(t, "draft", result.State)
	assert.NotEmpty(t, result.ServerSID)
	assert.NotEmpty(t, result.TemplateSID)
	assert.Equal(t, "business-template", result.TemplateName)
	assert.Contains(t, result.DescriptionHTML, "<strong>Fast</strong>")

	p, err := f.Plans.GetBySID(context.Background(), result.SID)
	require.NoError(t, err)
	tpl, err := f.Databases.GetByID(context.Background(), *p.TemplateDatabaseID())
	require.NoError(t, err)
	assert.Equal(t, client.StateDraft, tpl.State())
	assert.Equal(t, *p.ServerID(), *tpl.ServerID())
}

func TestCreatePlan_Validation(t *testing.T) {
	f := testutil.NewFixture()
	uc := NewCreatePlanUseCase(f.Plans, f.Servers, f.Databases, f.Clients, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), CreatePlanCommand{PlanInput: PlanInput{Name: ""}})
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), CreatePlanCommand{PlanInput: PlanInput{Name: "x", MaxDBsPerPartner: -1}})
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), CreatePlanCommand{PlanInput: PlanInput{Name: "x", ServerSID: "srv_missing"}})
	assert.True(t, errors.IsNotFoundError(err))

	f.Clients.Templates["used"] = true
	_, err = uc.Execute(context.Background(), CreatePlanCommand{PlanInput: PlanInput{Name: "x"}, TemplateName: "used"})
	assert.True(t, errors.IsConflictError(err))
}

func TestUpdatePlan(t *testing.T) {
	f := testutil.NewFixture()
	created := createPlanWithTemplate(t, f)

	uc := NewUpdatePlanUseCase(f.Plans, f.Servers, f.Databases, nil, logger.NewNop())
	result, err := uc.Execute(context.Background(), UpdatePlanCommand{
		PlanSID:   created.SID,
		PlanInput: PlanInput{Name: "Business+", MaxDBsPerPartner: 4, MaxUsers: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, "Business+", result.Name)
	assert.Equal(t, 4, result.MaxDBsPerPartner)
	assert.Equal(t, 20, result.MaxUsers)
	assert.Empty(t, result.ServerSID)

	_, err = uc.Execute(context.Background(), UpdatePlanCommand{PlanSID: "plan_missing", PlanInput: PlanInput{Name: "x"}})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestGetAndListPlans(t *testing.T) {
	f := testutil.NewFixture()
	draft := createPlanWithTemplate(t, f)
	confirmed := f.AddPlan(t, plan.Attributes{Name: "Live", ExpirationHours: 48, WebsiteDescription: "# Live"}, true)

	got, err := NewGetPlanUseCase(f.Plans, f.Servers, f.Databases, nil, logger.NewNop()).
		Execute(context.Background(), draft.SID)
	require.NoError(t, err)
	assert.Equal(t, "Business", got.Name)

	list, err := NewListPlansUseCase(f.Plans, f.Servers, f.Databases, nil, logger.NewNop()).
		Execute(context.Background(), ListPlansQuery{State: "confirmed"})
	require.NoError(t, err)
	require.Len(t, list.Plans, 1)
	assert.Equal(t, confirmed.SID(), list.Plans[0].SID)

	_, err = NewListPlansUseCase(f.Plans, f.Servers, f.Databases, nil, logger.NewNop()).
		Execute(context.Background(), ListPlansQuery{State: "archived"})
	assert.True(t, errors.IsValidationError(err))

	public, err := NewGetPublicPlansUseCase(f.Plans, markdown.NewRenderer(), logger.NewNop()).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, 48, public[0].TrialHours)
	assert.Contains(t, public[0].DescriptionHTML, "<h1")
}

func TestGenerateName(t *testing.T) {
	f := testutil.NewFixture()
	p := f.AddPlan(t, plan.Attributes{Name: "Basic", DBNameTemplate: "shop-%i"}, false)
	bare := f.AddPlan(t, plan.Attributes{Name: "Bare"}, false)
	uc := NewGenerateNameUseCase(f.Plans, f.Sequence, logger.NewNop())

	name, err := uc.Execute(context.Background(), p.SID())
	require.NoError(t, err)
	assert.Equal(t, "shop-1", name)

	name, err = uc.Execute(context.Background(), p.SID())
	require.NoError(t, err)
	assert.Equal(t, "shop-2", name)

	_, err = uc.Execute(context.Background(), bare.SID())
	assert.ErrorIs(t, err, plan.ErrTemplateNotConfigured)

	f.Sequence.Error = fmt.Errorf("redis down")
	_, err = uc.Execute(context.Background(), p.SID())
	assert.Error(t, err)
}

func newBuildTemplate(f *testutil.Fixture) *BuildTemplateUseCase {
	return NewBuildTemplateUseCase(f.Plans, f.Servers, f.Databases, newCommander(f), f.Locker, nil, logger.NewNop())
}

func TestBuildTemplate_Success(t *testing.T) {
	f := testutil.NewFixture()
	created := createPlanWithTemplate(t, f)
	f.Dispatcher.SendFunc = func(ctx context.Context, req *command.Request) (*command.Result, error) {
		return &command.Result{State: "template", SuperuserPassword: "admin-pw"}, nil
	}

	result, err := newBuildTemplate(f).Execute(context.Background(), BuildTemplateCommand{
		PlanSID: created.SID,
		Addons:  []string{"crm", "sale"},
	})
	require.NoError(t, err)

	assert.Equal(t, "template", result.TemplateState)
	assert.Equal(t, "confirmed", result.Plan.State)

	sent := f.Dispatcher.Last()
	assert.Equal(t, command.PathNewDatabase, sent.Path)
	assert.Equal(t, "business-template", sent.State["d"])
	assert.Equal(t, float64(1), sent.State["demo"])
	assert.Equal(t, []any{"crm", "sale"}, sent.State["addons"])
	assert.Equal(t, "de_DE", sent.State["lang"])
	assert.Equal(t, float64(1), sent.State["is_template_db"])
	assert.Empty(t, sent.Scope)

	p, err := f.Plans.GetBySID(context.Background(), created.SID)
	require.NoError(t, err)
	tpl, err := f.Databases.GetByID(context.Background(), *p.TemplateDatabaseID())
	require.NoError(t, err)
	assert.Equal(t, "admin-pw", tpl.Password())
	assert.Contains(t, f.Locker.Keys, clientservices.TemplateLockKey(p.ID()))
}

func TestBuildTemplate_Errors(t *testing.T) {
	t.Run("no template", func(t *testing.T) {
		f := testutil.NewFixture()
		p := f.AddPlan(t, plan.Attributes{Name: "Bare"}, false)
		_, err := newBuildTemplate(f).Execute(context.Background(), BuildTemplateCommand{PlanSID: p.SID()})
		assert.ErrorIs(t, err, plan.ErrTemplateDBMissing)
	})

	t.Run("server refuses", func(t *testing.T) {
		f := testutil.NewFixture()
		created := createPlanWithTemplate(t, f)
		f.Dispatcher.SendFunc = func(ctx context.Context, req *command.Request) (*command.Result, error) {
			return nil, &command.ServerCommandFailedError{URL: req.URL, Status: 400, Reason: "Bad Request"}
		}
		_, err := newBuildTemplate(f).Execute(context.Background(), BuildTemplateCommand{PlanSID: created.SID})
		assert.True(t, errors.IsUpstreamError(err))

		p, _ := f.Plans.GetBySID(context.Background(), created.SID)
		assert.Equal(t, plan.StateDraft, p.State())
	})

	t.Run("unknown plan", func(t *testing.T) {
		f := testutil.NewFixture()
		_, err := newBuildTemplate(f).Execute(context.Background(), BuildTemplateCommand{PlanSID: "plan_missing"})
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestBuildTemplate_ConcurrentCallsShareOneBuild(t *testing.T) {
	f := testutil.NewFixture()
	created := createPlanWithTemplate(t, f)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.Dispatcher.SendFunc = func(ctx context.Context, req *command.Request) (*command.Result, error) {
		once.Do(func() { close(started) })
		<-release
		return &command.Result{State: "template"}, nil
	}

	uc := newBuildTemplate(f)
	var wg sync.WaitGroup
	results := make([]*dto.TemplateResultDTO, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = uc.Execute(context.Background(), BuildTemplateCommand{PlanSID: created.SID})
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = uc.Execute(context.Background(), BuildTemplateCommand{PlanSID: created.SID})
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Same(t, results[0], results[1])
	assert.Equal(t, 1, f.Dispatcher.Count(command.PathNewDatabase))
}

func TestDeleteTemplate(t *testing.T) {
	f := testutil.NewFixture()
	created := createPlanWithTemplate(t, f)
	f.Dispatcher.SendFunc = func(ctx context.Context, req *command.Request) (*command.Result, error) {
		return &command.Result{State: "template"}, nil
	}
	_, err := newBuildTemplate(f).Execute(context.Background(), BuildTemplateCommand{PlanSID: created.SID})
	require.NoError(t, err)

	uc := NewDeleteTemplateUseCase(f.Plans, f.Servers, f.Databases, newCommander(f), f.Locker, nil, logger.NewNop())

	f.Dispatcher.SendDeleteFunc = func(ctx context.Context, req *command.Request) error {
		return command.ErrDeletionUnconfirmed
	}
	_, err = uc.Execute(context.Background(), DeleteTemplateCommand{PlanSID: created.SID})
	assert.True(t, errors.IsUpstreamError(err))
	p, _ := f.Plans.GetBySID(context.Background(), created.SID)
	assert.Equal(t, plan.StateConfirmed, p.State())

	f.Dispatcher.SendDeleteFunc = nil
	result, err := uc.Execute(context.Background(), DeleteTemplateCommand{PlanSID: created.SID, Force: true})
	require.NoError(t, err)
	assert.Equal(t, "deleted", result.TemplateState)
	assert.Equal(t, "draft", result.Plan.State)
	assert.Equal(t, float64(1), f.Dispatcher.Last().State["force_delete"])
}
