package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	plandto "github.com/orris-inc/saasportal/internal/application/plan/dto"
	planusecases "github.com/orris-inc/saasportal/internal/application/plan/usecases"
	"github.com/orris-inc/saasportal/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/saasportal/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockCreatePlanUC struct {
	got    planusecases.CreatePlanCommand
	result *plandto.PlanDTO
	err    error
}

func (m *mockCreatePlanUC) Execute(ctx context.Context, cmd planusecases.CreatePlanCommand) (*plandto.PlanDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockUpdatePlanUC struct {
	got    planusecases.UpdatePlanCommand
	result *plandto.PlanDTO
	err    error
}

func (m *mockUpdatePlanUC) Execute(ctx context.Context, cmd planusecases.UpdatePlanCommand) (*plandto.PlanDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockGetPlanUC struct {
	result *plandto.PlanDTO
	err    error
}

func (m *mockGetPlanUC) Execute(ctx context.Context, sid string) (*plandto.PlanDTO, error) {
	return m.result, m.err
}

type mockListPlansUC struct {
	got    planusecases.ListPlansQuery
	result *plandto.ListPlansResult
	err    error
}

func (m *mockListPlansUC) Execute(ctx context.Context, query planusecases.ListPlansQuery) (*plandto.ListPlansResult, error) {
	m.got = query
	return m.result, m.err
}

type mockGetPublicPlansUC struct {
	result []*plandto.PublicPlanDTO
	err    error
}

func (m *mockGetPublicPlansUC) Execute(ctx context.Context) ([]*plandto.PublicPlanDTO, error) {
	return m.result, m.err
}

type mockBuildTemplateUC struct {
	got    planusecases.BuildTemplateCommand
	result *plandto.TemplateResultDTO
	err    error
}

func (m *mockBuildTemplateUC) Execute(ctx context.Context, cmd planusecases.BuildTemplateCommand) (*plandto.TemplateResultDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockDeleteTemplateUC struct {
	got    planusecases.DeleteTemplateCommand
	result *plandto.TemplateResultDTO
	err    error
}

func (m *mockDeleteTemplateUC) Execute(ctx context.Context, cmd planusecases.DeleteTemplateCommand) (*plandto.TemplateResultDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockGenerateNameUC struct {
	name string
	err  error
}

func (m *mockGenerateNameUC) Execute(ctx context.Context, planSID string) (string, error) {
	return m.name, m.err
}

// =====================================================================
// Test helpers
// =====================================================================

const testPlanSID = "plan_abc123def456"

func createTestPlanDTO() *plandto.PlanDTO {
	return &plandto.PlanDTO{
		SID:            testPlanSID,
		Name:           "Business",
		DBNameTemplate: "shop-%i",
		MaxUsers:       10,
		State:          "confirmed",
	}
}

type planHandlerMocks struct {
	create    *mockCreatePlanUC
	update    *mockUpdatePlanUC
	get       *mockGetPlanUC
	list      *mockListPlansUC
	public    *mockGetPublicPlansUC
	build     *mockBuildTemplateUC
	deleteTpl *mockDeleteTemplateUC
	names     *mockGenerateNameUC
}

func newTestPlanHandler() (*PlanHandler, *planHandlerMocks) {
	m := &planHandlerMocks{
		create:    &mockCreatePlanUC{},
		update:    &mockUpdatePlanUC{},
		get:       &mockGetPlanUC{},
		list:      &mockListPlansUC{},
		public:    &mockGetPublicPlansUC{},
		build:     &mockBuildTemplateUC{},
		deleteTpl: &mockDeleteTemplateUC{},
		names:     &mockGenerateNameUC{},
	}
	h := NewPlanHandler(m.create, m.update, m.get, m.list, m.public, m.build, m.deleteTpl, m.names, testutil.NewMockLogger())
	return h, m
}

// =====================================================================
// TestPlanHandler_CreatePlan
// =====================================================================

func TestPlanHandler_CreatePlan_Success(t *testing.T) {
	handler, mocks := newTestPlanHandler()
	mocks.create.result = createTestPlanDTO()

	reqBody := CreatePlanRequest{
		PlanRequest: PlanRequest{
			Name:             "Business",
			DBNameTemplate:   "shop-%i",
			MaxUsers:         10,
			MaxDBsPerPartner: 3,
			ServerID:         "srv_abc123",
		},
		TemplateName: "business-template",
	}
	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/plans", reqBody)

	handler.CreatePlan(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	assert.Equal(t, "business-template", mocks.create.got.TemplateName)
	assert.Equal(t, "srv_abc123", mocks.create.got.ServerSID)
	assert.Equal(t, 3, mocks.create.got.MaxDBsPerPartner)
}

func TestPlanHandler_CreatePlan_InvalidRequest(t *testing.T) {
	handler, _ := newTestPlanHandler()

	tests := []struct {
		name string
		body any
	}{
		{"missing name", map[string]any{"summary": "no name"}},
		{"negative quota", map[string]any{"name": "Business", "max_dbs_per_partner": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/plans", tt.body)

			handler.CreatePlan(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, string(errors.ErrorTypeValidation), resp.Error.Type)
		})
	}
}

func TestPlanHandler_CreatePlan_UseCaseError(t *testing.T) {
	handler, mocks := newTestPlanHandler()
	mocks.create.err = errors.NewValidationError("invalid plan language", "xx_YY")

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/plans", PlanRequest{Name: "Business", Lang: "xx_YY"})

	handler.CreatePlan(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// TestPlanHandler_UpdatePlan / GetPlan / ListPlans
// =====================================================================

func TestPlanHandler_UpdatePlan_Success(t *testing.T) {
	handler, mocks := newTestPlanHandler()
	mocks.update.result = createTestPlanDTO()

	c, w := testutil.NewTestContext(http.MethodPut, "/api/v1/plans/"+testPlanSID, PlanRequest{Name: "Business Plus"})
	testutil.SetURLParam(c, "sid", testPlanSID)

	handler.UpdatePlan(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testPlanSID, mocks.update.got.PlanSID)
	assert.Equal(t, "Business Plus", mocks.update.got.Name)
}

func TestPlanHandler_GetPlan_InvalidSID(t *testing.T) {
	handler, _ := newTestPlanHandler()

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/plans/srv_abc", nil)
	testutil.SetURLParam(c, "sid", "srv_abc")

	handler.GetPlan(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanHandler_GetPlan_NotFound(t *testing.T) {
	handler, mocks := newTestPlanHandler()
	mocks.get.err = errors.NewNotFoundError("plan not found", testPlanSID)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/plans/"+testPlanSID, nil)
	testutil.SetURLParam(c, "sid", testPlanSID)

	handler.GetPlan(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlanHandler_ListPlans(t *testing.T) {
	handler, mocks := newTestPlanHandler()
	mocks.list.result = &plandto.ListPlansResult{Plans: []*plandto.PlanDTO{createTestPlanDTO()}, Total: 1}

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/plans", nil)
	testutil.SetQueryParams(c, map[string]string{"state": "confirmed", "page": "2", "page_size": "5"})

	handler.ListPlans(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", mocks.list.got.State)
	assert.Equal(t, 2, mocks.list.got.Page)
	assert.Equal(t, 5, mocks.list.got.PageSize)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var list struct {
		Items []plandto.PlanDTO `json:"items"`
		Total int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Items, 1)
	assert.Equal(t, testPlanSID, list.Items[0].SID)
}

func TestPlanHandler_GetPublicPlans(t *testing.T) {
	handler, mocks := newTestPlanHandler()
	mocks.public.result = []*plandto.PublicPlanDTO{{SID: testPlanSID, Name: "Business", TrialHours: 72}}

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/plans/public", nil)

	handler.GetPublicPlans(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// =====================================================================
// Template and name generation
// =====================================================================

func TestPlanHandler_BuildTemplate(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		handler, mocks := newTestPlanHandler()
		mocks.build.result = &plandto.TemplateResultDTO{TemplateSID: "db_tpl", TemplateState: "template"}

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/plans/"+testPlanSID+"/template", nil)
		testutil.SetURLParam(c, "sid", testPlanSID)

		handler.BuildTemplate(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, testPlanSID, mocks.build.got.PlanSID)
		assert.Empty(t, mocks.build.got.Addons)
	})

	t.Run("with addons", func(t *testing.T) {
		handler, mocks := newTestPlanHandler()
		mocks.build.result = &plandto.TemplateResultDTO{}

		body := BuildTemplateRequest{Addons: []string{"website", "sale"}}
		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/plans/"+testPlanSID+"/template", body)
		testutil.SetURLParam(c, "sid", testPlanSID)

		handler.BuildTemplate(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"website", "sale"}, mocks.build.got.Addons)
	})

	t.Run("server failure", func(t *testing.T) {
		handler, mocks := newTestPlanHandler()
		mocks.build.err = errors.NewUpstreamError("provisioning server rejected the command", "status 500")

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/plans/"+testPlanSID+"/template", nil)
		testutil.SetURLParam(c, "sid", testPlanSID)

		handler.BuildTemplate(c)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestPlanHandler_DeleteTemplate_Force(t *testing.T) {
	handler, mocks := newTestPlanHandler()
	mocks.deleteTpl.result = &plandto.TemplateResultDTO{TemplateState: "deleted"}

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/v1/plans/"+testPlanSID+"/template", nil)
	testutil.SetURLParam(c, "sid", testPlanSID)
	testutil.SetQueryParams(c, map[string]string{"force": "true"})

	handler.DeleteTemplate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mocks.deleteTpl.got.Force)
}

func TestPlanHandler_GenerateName(t *testing.T) {
	handler, mocks := newTestPlanHandler()
	mocks.names.name = "shop-7"

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/plans/"+testPlanSID+"/names", nil)
	testutil.SetURLParam(c, "sid", testPlanSID)

	handler.GenerateName(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "shop-7", data["name"])
}

func TestPlanHandler_GenerateName_NoTemplate(t *testing.T) {
	handler, mocks := newTestPlanHandler()
	mocks.names.err = errors.NewBadRequestError("plan has no database name template")

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/plans/"+testPlanSID+"/names", nil)
	testutil.SetURLParam(c, "sid", testPlanSID)

	handler.GenerateName(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
