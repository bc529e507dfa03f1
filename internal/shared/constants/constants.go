package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType = "Content-Type"
	HeaderXRequestID  = "X-Request-ID"
	// HeaderXUserID is set by the trusted gateway in front of the portal.
	HeaderXUserID = "X-User-ID"

	ContentTypeJSON = "application/json"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableServers     = "saas_servers"
	TablePlans       = "saas_plans"
	TableDatabases   = "saas_databases"
	TableClients     = "saas_clients"
	TablePortalUsers = "saas_portal_users"
	TableSequences   = "saas_sequences"
	TableLocks       = "saas_locks"


	ErrMsgInternalServerError = "Internal server error occurred"
)
