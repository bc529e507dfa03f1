package dispatcher

import (
	"encoding/json"
	"fmt"

	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/domain/server"
)

type requestBody struct {
	State    string   `json:"state"`
	ClientID string   `json:"client_id"`
	Scope    []string `json:"scope,omitempty"`
}

// RequestBuilder turns a command into a signed request. It performs no I/O.
type RequestBuilder struct {
	signer *StateSigner
}

func NewRequestBuilder(signer *StateSigner) *RequestBuilder {
	return &RequestBuilder{signer: signer}
}

func (b *RequestBuilder) Build(srv *server.Server, path command.Path, state command.State,
	clientID string, scope []string) (*command.Request, error) {
	if srv == nil {
		return nil, server.ErrServerNotFound
	}

	token, err := b.signer.Sign(srv.Secret(), clientID, state)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(requestBody{State: token, ClientID: clientID, Scope: scope})
	if err != nil {
		return nil, fmt.Errorf("failed to encode command body: %w", err)
	}

	return &command.Request{
		Path:     path,
		URL:      srv.BaseURL() + string(path),
		ClientID: clientID,
		Body:     body,
	}, nil
}

var _ command.RequestBuilder = (*RequestBuilder)(nil)
