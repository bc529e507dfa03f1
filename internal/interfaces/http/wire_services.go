package http

import (
	"fmt"

	clientservices "github.com/orris-inc/saasportal/internal/application/client/services"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/domain/server"
	"github.com/orris-inc/saasportal/internal/infrastructure/dispatcher"
	"github.com/orris-inc/saasportal/internal/infrastructure/lock"
	"github.com/orris-inc/saasportal/internal/infrastructure/pubsub"
	"github.com/orris-inc/saasportal/internal/infrastructure/sequence"
	"github.com/orris-inc/saasportal/internal/shared/db"
	"github.com/orris-inc/saasportal/internal/shared/services/markdown"
)

// services holds the infrastructure services shared by the use cases.
type services struct {
	locker    clientservices.Locker
	sequence  plan.Sequence
	registry  *server.Registry
	commander *clientservices.Commander
	transport *pubsub.Transport
	tx        *db.TransactionManager
	renderer  markdown.Renderer
}

func (c *Container) initServices() error {
	provisioning := c.cfg.Provisioning
	svcs := &services{
		registry: server.NewRegistry(c.repos.serverRepo, server.PolicyByName(provisioning.SelectionPolicy)),
		tx:       db.NewTransactionManager(c.db),
		renderer: markdown.NewRenderer(),
	}

	if c.redis != nil {
		svcs.locker = lock.NewRedisLocker(c.redis, provisioning.LockTTL(), provisioning.LockWaitTimeout(), c.log)
		svcs.sequence = sequence.NewRedisSequence(c.redis)
	} else {
		c.log.Infow("redis disabled, using database locks and sequences")
		svcs.locker = lock.NewDBLocker(c.db, provisioning.LockTTL(), provisioning.LockWaitTimeout(), c.log)
		svcs.sequence = sequence.NewDBSequence(c.db)
	}

	dispatch := c.cfg.Dispatcher
	signer := dispatcher.NewStateSigner(dispatch.SigningSecret, dispatch.Issuer, dispatch.TokenTTL())
	svcs.commander = clientservices.NewCommander(
		c.repos.serverRepo,
		dispatcher.NewRequestBuilder(signer),
		dispatcher.NewHTTPDispatcher(dispatch.Timeout(), c.log),
		c.log,
	)

	transport, err := pubsub.NewTransport(c.cfg.Notification, c.redis, c.log)
	if err != nil {
		return fmt.Errorf("failed to create notification transport: %w", err)
	}
	svcs.transport = transport

	c.svcs = svcs
	c.log.Infow("provisioning services initialized",
		"selection_policy", provisioning.SelectionPolicy,
		"notification_transport", c.cfg.Notification.Transport,
		"redis", c.redis != nil,
	)
	return nil
}
