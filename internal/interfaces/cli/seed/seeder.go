package seed

import (
	"context"
	"fmt"

	planUsecases "github.com/orris-inc/saasportal/internal/application/plan/usecases"
	serverUsecases "github.com/orris-inc/saasportal/internal/application/server/usecases"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/domain/portaluser"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// Result counts what a run created or skipped.
type Result struct {
	ServersCreated int
	ServersSkipped int
	PlansCreated   int
	PlansSkipped   int
	UsersUpserted  int
}

// Seeder loads a File into an empty or partially seeded deployment.
// Servers are matched by domain and plans by name, so reruns are idempotent.
type Seeder struct {
	servers    server.Repository
	plans      plan.Repository
	users      portaluser.Repository
	createSrv  *serverUsecases.CreateServerUseCase
	createPlan *planUsecases.CreatePlanUseCase
	logger     logger.Interface
}

func NewSeeder(
	servers server.Repository,
	plans plan.Repository,
	users portaluser.Repository,
	createSrv *serverUsecases.CreateServerUseCase,
	createPlan *planUsecases.CreatePlanUseCase,
	logger logger.Interface,
) *Seeder {
	return &Seeder{
		servers:    servers,
		plans:      plans,
		users:      users,
		createSrv:  createSrv,
		createPlan: createPlan,
		logger:     logger,
	}
}

func (s *Seeder) Run(ctx context.Context, f *File) (*Result, error) {
	res := &Result{}

	for _, entry := range f.Servers {
		existing, err := s.servers.GetByDomain(ctx, entry.Domain)
		if err != nil {
			return res, fmt.Errorf("failed to look up server %s: %w", entry.Domain, err)
		}
		if existing != nil {
			res.ServersSkipped++
			continue
		}
		created, err := s.createSrv.Execute(ctx, serverUsecases.CreateServerCommand{
			Domain:   entry.Domain,
			Scheme:   entry.Scheme,
			Host:     entry.Host,
			Provider: entry.Provider,
			Secret:   entry.Secret,
			Sequence: entry.Sequence,
		})
		if err != nil {
			return res, fmt.Errorf("failed to seed server %s: %w", entry.Domain, err)
		}
		s.logger.Infow("seeded server", "domain", entry.Domain, "sid", created.SID)
		res.ServersCreated++
	}

	existingPlans, err := s.planNames(ctx)
	if err != nil {
		return res, err
	}

	for _, entry := range f.Plans {
		if existingPlans[entry.Name] {
			res.PlansSkipped++
			continue
		}

		serverSID := ""
		if entry.Server != "" {
			srv, err := s.servers.GetByDomain(ctx, entry.Server)
			if err != nil {
				return res, fmt.Errorf("failed to look up server %s: %w", entry.Server, err)
			}
			if srv == nil {
				return res, fmt.Errorf("plan %s references unknown server %s", entry.Name, entry.Server)
			}
			serverSID = srv.SID()
		}

		created, err := s.createPlan.Execute(ctx, planUsecases.CreatePlanCommand{
			PlanInput: planUsecases.PlanInput{
				Name:                  entry.Name,
				Summary:               entry.Summary,
				WebsiteDescription:    entry.WebsiteDescription,
				DBNameTemplate:        entry.DBNameTemplate,
				MaxUsers:              entry.MaxUsers,
				TotalStorageLimit:     entry.TotalStorageLimit,
				BlockOnExpiration:     entry.BlockOnExpiration,
				BlockOnStorageExceed:  entry.BlockOnStorageExceed,
				MaxDBsPerPartner:      entry.MaxDBsPerPartner,
				MaxTrialDBsPerPartner: entry.MaxTrialDBsPerPartner,
				ExpirationHours:       entry.ExpirationHours,
				GracePeriodDays:       entry.GracePeriodDays,
				Lang:                  entry.Lang,
				TZ:                    entry.TZ,
				Demo:                  entry.Demo,
				Sequence:              entry.Sequence,
				ServerSID:             serverSID,
			},
			TemplateName: entry.Template,
		})
		if err != nil {
			return res, fmt.Errorf("failed to seed plan %s: %w", entry.Name, err)
		}
		existingPlans[entry.Name] = true
		s.logger.Infow("seeded plan", "name", entry.Name, "sid", created.SID)
		res.PlansCreated++
	}

	for _, entry := range f.Users {
		if entry.ID == 0 {
			return res, fmt.Errorf("user %q has no id", entry.Login)
		}
		if err := s.users.Upsert(ctx, &portaluser.User{
			ID:        entry.ID,
			PartnerID: entry.PartnerID,
			Login:     entry.Login,
			Name:      entry.Name,
			Email:     entry.Email,
		}); err != nil {
			return res, fmt.Errorf("failed to seed user %s: %w", entry.Login, err)
		}
		res.UsersUpserted++
	}

	return res, nil
}

func (s *Seeder) planNames(ctx context.Context) (map[string]bool, error) {
	names := make(map[string]bool)
	for page := 1; ; page++ {
		plans, total, err := s.plans.List(ctx, plan.Filter{Page: page, PageSize: 100})
		if err != nil {
			return nil, fmt.Errorf("failed to list plans: %w", err)
		}
		for _, p := range plans {
			names[p.Name()] = true
		}
		if len(plans) == 0 || int64(page*100) >= total {
			return names, nil
		}
	}
}
