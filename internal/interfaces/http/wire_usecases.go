package http

import (
	clientUsecases "github.com/orris-inc/saasportal/internal/application/client/usecases"
	planUsecases "github.com/orris-inc/saasportal/internal/application/plan/usecases"
	serverUsecases "github.com/orris-inc/saasportal/internal/application/server/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Server registry
	createServerUC       *serverUsecases.CreateServerUseCase
	updateServerUC       *serverUsecases.UpdateServerUseCase
	updateServerStatusUC *serverUsecases.UpdateServerStatusUseCase
	getServerUC          *serverUsecases.GetServerUseCase
	listServersUC        *serverUsecases.ListServersUseCase
	deleteServerUC       *serverUsecases.DeleteServerUseCase

	// Plan
	createPlanUC     *planUsecases.CreatePlanUseCase
	updatePlanUC     *planUsecases.UpdatePlanUseCase
	getPlanUC        *planUsecases.GetPlanUseCase
	listPlansUC      *planUsecases.ListPlansUseCase
	getPublicPlansUC *planUsecases.GetPublicPlansUseCase
	buildTemplateUC  *planUsecases.BuildTemplateUseCase
	deleteTemplateUC *planUsecases.DeleteTemplateUseCase
	generateNameUC   *planUsecases.GenerateNameUseCase
	createClientUC   *planUsecases.CreateClientUseCase

	// Client lifecycle
	getClientUC        *clientUsecases.GetClientUseCase
	listClientsUC      *clientUsecases.ListClientsUseCase
	provisionClientUC  *clientUsecases.ProvisionClientUseCase
	duplicateClientUC  *clientUsecases.DuplicateClientUseCase
	deleteClientUC     *clientUsecases.DeleteClientUseCase
	upgradeClientUC    *clientUsecases.UpgradeClientUseCase
	changeExpirationUC *clientUsecases.ChangeExpirationUseCase
	syncParamsUC       *clientUsecases.SyncClientParamsUseCase
	reportStorageUC    *clientUsecases.ReportStorageUsageUseCase
	checkNameUC        *clientUsecases.CheckNameUseCase

	// Sweeps
	sweepExpiredUC   *clientUsecases.SweepExpiredUseCase
	notifyExpiringUC *clientUsecases.NotifyExpiringUseCase
	monitorStorageUC *clientUsecases.MonitorStorageUseCase
}

func (c *Container) initUseCases() {
	r, s, log := c.repos, c.svcs, c.log
	hook := s.transport.Hook
	planDomains := planUsecases.DomainSettings{BaseDomain: c.cfg.Provisioning.BaseSaaSDomain}
	clientDomains := clientUsecases.DomainSettings{BaseDomain: c.cfg.Provisioning.BaseSaaSDomain}

	c.ucs = &allUseCases{
		createServerUC:       serverUsecases.NewCreateServerUseCase(r.serverRepo, log),
		updateServerUC:       serverUsecases.NewUpdateServerUseCase(r.serverRepo, log),
		updateServerStatusUC: serverUsecases.NewUpdateServerStatusUseCase(r.serverRepo, log),
		getServerUC:          serverUsecases.NewGetServerUseCase(r.serverRepo),
		listServersUC:        serverUsecases.NewListServersUseCase(r.serverRepo, log),
		deleteServerUC:       serverUsecases.NewDeleteServerUseCase(r.serverRepo, r.clientRepo, r.databaseRepo, log),

		createPlanUC:     planUsecases.NewCreatePlanUseCase(r.planRepo, r.serverRepo, r.databaseRepo, r.clientRepo, s.renderer, log),
		updatePlanUC:     planUsecases.NewUpdatePlanUseCase(r.planRepo, r.serverRepo, r.databaseRepo, s.renderer, log),
		getPlanUC:        planUsecases.NewGetPlanUseCase(r.planRepo, r.serverRepo, r.databaseRepo, s.renderer, log),
		listPlansUC:      planUsecases.NewListPlansUseCase(r.planRepo, r.serverRepo, r.databaseRepo, s.renderer, log),
		getPublicPlansUC: planUsecases.NewGetPublicPlansUseCase(r.planRepo, s.renderer, log),
		buildTemplateUC:  planUsecases.NewBuildTemplateUseCase(r.planRepo, r.serverRepo, r.databaseRepo, s.commander, s.locker, s.renderer, log),
		deleteTemplateUC: planUsecases.NewDeleteTemplateUseCase(r.planRepo, r.serverRepo, r.databaseRepo, s.commander, s.locker, s.renderer, log),
		generateNameUC:   planUsecases.NewGenerateNameUseCase(r.planRepo, s.sequence, log),
		createClientUC: planUsecases.NewCreateClientUseCase(
			r.planRepo, r.clientRepo, r.serverRepo, s.registry, r.portalUserRepo,
			s.sequence, s.locker, s.tx, hook, planDomains, log,
		),

		getClientUC:   clientUsecases.NewGetClientUseCase(r.clientRepo, r.serverRepo, r.planRepo, clientDomains, log),
		listClientsUC: clientUsecases.NewListClientsUseCase(r.clientRepo, r.serverRepo, r.planRepo, clientDomains, log),
		provisionClientUC: clientUsecases.NewProvisionClientUseCase(
			r.clientRepo, r.serverRepo, r.planRepo, r.databaseRepo, r.portalUserRepo,
			s.commander, s.locker, clientDomains, log,
		),
		duplicateClientUC: clientUsecases.NewDuplicateClientUseCase(
			r.clientRepo, r.serverRepo, s.registry, r.planRepo, r.portalUserRepo,
			s.commander, clientDomains, log,
		),
		deleteClientUC:     clientUsecases.NewDeleteClientUseCase(r.clientRepo, s.commander, s.locker, log),
		upgradeClientUC:    clientUsecases.NewUpgradeClientUseCase(r.clientRepo, s.commander, s.locker, log),
		changeExpirationUC: clientUsecases.NewChangeExpirationUseCase(r.clientRepo, r.serverRepo, r.planRepo, s.commander, s.locker, hook, clientDomains, log),
		syncParamsUC:       clientUsecases.NewSyncClientParamsUseCase(r.clientRepo, s.commander, s.locker, log),
		reportStorageUC:    clientUsecases.NewReportStorageUsageUseCase(r.clientRepo, r.serverRepo, r.planRepo, s.locker, clientDomains, log),
		checkNameUC:        clientUsecases.NewCheckNameUseCase(r.clientRepo, r.serverRepo, clientDomains, log),

		sweepExpiredUC:   clientUsecases.NewSweepExpiredUseCase(r.clientRepo, s.commander, s.locker, hook, log),
		notifyExpiringUC: clientUsecases.NewNotifyExpiringUseCase(r.clientRepo, s.locker, hook, c.cfg.Provisioning.NotifyAdvanceDays, log),
		monitorStorageUC: clientUsecases.NewMonitorStorageUseCase(r.clientRepo, s.commander, s.locker, hook, log),
	}
}
