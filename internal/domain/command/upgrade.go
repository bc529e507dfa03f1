package command

// Parameter keys understood by tenant instances.
const (
	ParamSuspended          = "saas_client.suspended"
	ParamExpirationDatetime = "saas_client.expiration_datetime"
	ParamMaxUsers           = "saas_client.max_users"
	ParamTotalStorageLimit  = "saas_client.total_storage_limit"
)

// UpgradeParam is one key/value pushed to a tenant instance.
type UpgradeParam struct {
	Key    string `json:"key" mapstructure:"key"`
	Value  any    `json:"value" mapstructure:"value"`
	Hidden bool   `json:"hidden" mapstructure:"hidden"`
}

// UpgradePayload is the body of an upgrade command.
type UpgradePayload struct {
	Params []UpgradeParam `json:"params" mapstructure:"params"`
}

// SuspendPayload blocks the tenant instance.
func SuspendPayload() UpgradePayload {
	return UpgradePayload{Params: []UpgradeParam{{Key: ParamSuspended, Value: "1", Hidden: true}}}
}

// Keys lists the parameter keys in order.
func (p UpgradePayload) Keys() []string {
	keys := make([]string, 0, len(p.Params))
	for _, param := range p.Params {
		keys = append(keys, param.Key)
	}
	return keys
}

// Value returns the value for key, if present.
func (p UpgradePayload) Value(key string) (any, bool) {
	for _, param := range p.Params {
		if param.Key == key {
			return param.Value, true
		}
	}
	return nil, false
}

// IsSuspend reports whether the payload suspends the instance.
func (p UpgradePayload) IsSuspend() bool {
	v, ok := p.Value(ParamSuspended)
	return ok && v == "1"
}
