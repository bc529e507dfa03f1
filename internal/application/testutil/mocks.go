// Package testutil provides in-memory collaborators for the application use case tests.
package testutil

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/orris-inc/saasportal/internal/domain/client"
	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/domain/notification"
	"github.com/orris-inc/saasportal/internal/domain/plan"
	"github.com/orris-inc/saasportal/internal/domain/portaluser"
	"github.com/orris-inc/saasportal/internal/domain/server"
)

// MockServerRepository is an in-memory server.Repository.
type MockServerRepository struct {
	mu      sync.RWMutex
	servers map[uint]*server.Server
	nextID  uint

	CreateError error
	GetError    error
	UpdateError error
	DeleteError error
	ListError   error
}

func NewMockServerRepository() *MockServerRepository {
	return &MockServerRepository{servers: make(map[uint]*server.Server)}
}

func (m *MockServerRepository) Create(ctx context.Context, s *server.Server) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.servers {
		if existing.Domain() == s.Domain() {
			return server.ErrServerDomainExists
		}
	}
	if s.ID() == 0 {
		m.nextID++
		if err := s.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.servers[s.ID()] = s
	return nil
}

func (m *MockServerRepository) GetByID(ctx context.Context, id uint) (*server.Server, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.servers[id], nil
}

func (m *MockServerRepository) GetBySID(ctx context.Context, sid string) (*server.Server, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, s := range m.servers {
		if s.SID() == sid {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockServerRepository) GetByDomain(ctx context.Context, domain string) (*server.Server, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, s := range m.servers {
		if s.Domain() == domain {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockServerRepository) Update(ctx context.Context, s *server.Server) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.servers[s.ID()]; !ok {
		return server.ErrServerNotFound
	}
	m.servers[s.ID()] = s
	return nil
}

func (m *MockServerRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.servers[id]; !ok {
		return server.ErrServerNotFound
	}
	delete(m.servers, id)
	return nil
}

func (m *MockServerRepository) ListActive(ctx context.Context) ([]*server.Server, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []*server.Server
	for _, s := range m.sorted() {
		if s.IsActive() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockServerRepository) List(ctx context.Context, filter server.Filter) ([]*server.Server, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListError != nil {
		return nil, 0, m.ListError
	}
	var out []*server.Server
	for _, s := range m.sorted() {
		if filter.Active != nil && s.IsActive() != *filter.Active {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (m *MockServerRepository) sorted() []*server.Server {
	out := make([]*server.Server, 0, len(m.servers))
	for _, s := range m.servers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// MockPlanRepository is an in-memory plan.Repository.
type MockPlanRepository struct {
	mu     sync.RWMutex
	plans  map[uint]*plan.Plan
	nextID uint

	CreateError error
	GetError    error
	UpdateError error
}

func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{plans: make(map[uint]*plan.Plan)}
}

func (m *MockPlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if p.ID() == 0 {
		m.nextID++
		if err := p.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.plans[p.ID()] = p
	return nil
}

func (m *MockPlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.plans[p.ID()] = p
	return nil
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id uint) (*plan.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.plans[id], nil
}

func (m *MockPlanRepository) GetBySID(ctx context.Context, sid string) (*plan.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, p := range m.plans {
		if p.SID() == sid {
			return p, nil
		}
	}
	return nil, nil
}

func (m *MockPlanRepository) FirstConfirmed(ctx context.Context) (*plan.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	var best *plan.Plan
	for _, p := range m.plans {
		if !p.IsConfirmed() {
			continue
		}
		if best == nil || p.Sequence() < best.Sequence() ||
			(p.Sequence() == best.Sequence() && p.ID() < best.ID()) {
			best = p
		}
	}
	return best, nil
}

func (m *MockPlanRepository) List(ctx context.Context, filter plan.Filter) ([]*plan.Plan, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetError != nil {
		return nil, 0, m.GetError
	}
	var out []*plan.Plan
	for _, p := range m.plans {
		if filter.State != nil && p.State() != *filter.State {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sequence() != out[j].Sequence() {
			return out[i].Sequence() < out[j].Sequence()
		}
		return out[i].ID() < out[j].ID()
	})
	return out, int64(len(out)), nil
}

// MockClientRepository is an in-memory client.Repository.
type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[uint]*client.Client
	nextID  uint

	// Templates are names held by template databases, consulted by NameTaken.
	Templates map[string]bool

	CreateError error
	GetError    error
	UpdateError error
	FindError   error
	CountError  error

	UpdateCalls int
}

func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		clients:   make(map[uint]*client.Client),
		Templates: make(map[string]bool),
	}
}

func (m *MockClientRepository) Create(ctx context.Context, c *client.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if c.ID() == 0 {
		m.nextID++
		if err := c.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.clients[c.ID()] = c
	return nil
}

func (m *MockClientRepository) Update(ctx context.Context, c *client.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.clients[c.ID()]; !ok {
		return client.ErrClientNotFound
	}
	m.clients[c.ID()] = c
	return nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id uint) (*client.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.clients[id], nil
}

func (m *MockClientRepository) GetBySID(ctx context.Context, sid string) (*client.Client, error) {
	return m.findOne(func(c *client.Client) bool { return c.SID() == sid })
}

func (m *MockClientRepository) GetByClientID(ctx context.Context, clientID string) (*client.Client, error) {
	return m.findOne(func(c *client.Client) bool { return c.ClientID() == clientID })
}

func (m *MockClientRepository) findOne(match func(*client.Client) bool) (*client.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, c := range m.clients {
		if match(c) {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockClientRepository) NameTaken(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Templates[name] {
		return true, nil
	}
	for _, c := range m.clients {
		if c.Name() == name && c.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockClientRepository) CountOpen(ctx context.Context, partnerID, planID uint, trial bool) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.CountError != nil {
		return 0, m.CountError
	}
	var n int64
	for _, c := range m.clients {
		if c.PartnerID() == partnerID && c.PlanID() != nil && *c.PlanID() == planID &&
			c.State() == client.StateOpen && c.Trial() == trial {
			n++
		}
	}
	return n, nil
}

func (m *MockClientRepository) CountLiveByServer(ctx context.Context, serverID uint) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.CountError != nil {
		return 0, m.CountError
	}
	var n int64
	for _, c := range m.clients {
		if c.Active() && c.ServerID() != nil && *c.ServerID() == serverID {
			n++
		}
	}
	return n, nil
}

func (m *MockClientRepository) FindExpiredUnflagged(ctx context.Context, now time.Time) ([]*client.Client, error) {
	return m.find(func(c *client.Client) bool {
		return c.Active() && !c.Expired() && c.IsExpiredAt(now)
	})
}

func (m *MockClientRepository) FindExpiringUnnotified(ctx context.Context, until time.Time) ([]*client.Client, error) {
	return m.find(func(c *client.Client) bool {
		exp := c.ExpirationDatetime()
		return c.Active() && !c.NotificationSent() && exp != nil && !exp.After(until)
	})
}

func (m *MockClientRepository) FindStorageCandidates(ctx context.Context) ([]*client.Client, error) {
	return m.find(func(c *client.Client) bool {
		return c.Active() && (c.TotalStorageLimit() > 0 || c.StorageExceed())
	})
}

func (m *MockClientRepository) List(ctx context.Context, f client.Filter) ([]*client.Client, int64, error) {
	out, err := m.find(func(c *client.Client) bool {
		switch {
		case f.PartnerID != nil && c.PartnerID() != *f.PartnerID:
			return false
		case f.PlanID != nil && (c.PlanID() == nil || *c.PlanID() != *f.PlanID):
			return false
		case f.State != nil && c.State() != *f.State:
			return false
		case f.Trial != nil && c.Trial() != *f.Trial:
			return false
		case f.Expired != nil && c.Expired() != *f.Expired:
			return false
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	return out, int64(len(out)), nil
}

func (m *MockClientRepository) find(match func(*client.Client) bool) ([]*client.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	var out []*client.Client
	for _, c := range m.clients {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// MockDatabaseRepository is an in-memory client.DatabaseRepository.
type MockDatabaseRepository struct {
	mu     sync.RWMutex
	dbs    map[uint]*client.Database
	nextID uint

	CreateError error
	UpdateError error
}

func NewMockDatabaseRepository() *MockDatabaseRepository {
	return &MockDatabaseRepository{dbs: make(map[uint]*client.Database)}
}

func (m *MockDatabaseRepository) Create(ctx context.Context, db *client.Database) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if db.ID() == 0 {
		m.nextID++
		if err := db.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.dbs[db.ID()] = db
	return nil
}

func (m *MockDatabaseRepository) GetByID(ctx context.Context, id uint) (*client.Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dbs[id], nil
}

func (m *MockDatabaseRepository) Update(ctx context.Context, db *client.Database) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.dbs[db.ID()] = db
	return nil
}

func (m *MockDatabaseRepository) CountLiveByServer(ctx context.Context, serverID uint) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, db := range m.dbs {
		if db.Active() && db.ServerID() != nil && *db.ServerID() == serverID {
			n++
		}
	}
	return n, nil
}

// MockPortalUserRepository is an in-memory portaluser.Repository.
type MockPortalUserRepository struct {
	mu    sync.RWMutex
	users map[uint]*portaluser.User
}

func NewMockPortalUserRepository(users ...*portaluser.User) *MockPortalUserRepository {
	m := &MockPortalUserRepository{users: make(map[uint]*portaluser.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MockPortalUserRepository) GetByID(ctx context.Context, id uint) (*portaluser.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id], nil
}

func (m *MockPortalUserRepository) Upsert(ctx context.Context, u *portaluser.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

// MockSequence counts per name from 1.
type MockSequence struct {
	mu     sync.Mutex
	values map[string]int64
	Error  error
}

func NewMockSequence() *MockSequence {
	return &MockSequence{values: make(map[string]int64)}
}

func (m *MockSequence) Next(ctx context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Error != nil {
		return 0, m.Error
	}
	m.values[name]++
	return m.values[name], nil
}

// MockRequestBuilder builds unsigned requests and keeps the state readable.
type MockRequestBuilder struct {
	BuildError error
}

func (b *MockRequestBuilder) Build(srv *server.Server, path command.Path, state command.State,
	clientID string, scope []string) (*command.Request, error) {
	if b.BuildError != nil {
		return nil, b.BuildError
	}
	body, err := json.Marshal(map[string]any{"state": state, "client_id": clientID, "scope": scope})
	if err != nil {
		return nil, err
	}
	return &command.Request{Path: path, URL: srv.BaseURL() + string(path), ClientID: clientID, Body: body}, nil
}

// SentCommand is a request seen by MockDispatcher, with its decoded body.
type SentCommand struct {
	Path     command.Path
	URL      string
	ClientID string
	State    map[string]any
	Scope    []string
}

// MockDispatcher records commands. The Func fields override the default
// success answers.
type MockDispatcher struct {
	mu   sync.Mutex
	Sent []SentCommand

	SendFunc       func(ctx context.Context, req *command.Request) (*command.Result, error)
	SendDeleteFunc func(ctx context.Context, req *command.Request) error
}

func (d *MockDispatcher) Send(ctx context.Context, req *command.Request) (*command.Result, error) {
	d.record(req)
	if d.SendFunc != nil {
		return d.SendFunc(ctx, req)
	}
	return &command.Result{ClientID: req.ClientID}, nil
}

func (d *MockDispatcher) SendDelete(ctx context.Context, req *command.Request) error {
	d.record(req)
	if d.SendDeleteFunc != nil {
		return d.SendDeleteFunc(ctx, req)
	}
	return nil
}

func (d *MockDispatcher) record(req *command.Request) {
	var body struct {
		State    map[string]any `json:"state"`
		ClientID string         `json:"client_id"`
		Scope    []string       `json:"scope"`
	}
	_ = json.Unmarshal(req.Body, &body)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.Sent = append(d.Sent, SentCommand{
		Path:     req.Path,
		URL:      req.URL,
		ClientID: req.ClientID,
		State:    body.State,
		Scope:    body.Scope,
	})
}

// Count returns how many commands were sent to path.
func (d *MockDispatcher) Count(path command.Path) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.Sent {
		if c.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent command, or the zero value.
func (d *MockDispatcher) Last() SentCommand {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Sent) == 0 {
		return SentCommand{}
	}
	return d.Sent[len(d.Sent)-1]
}

// MockLocker runs fn under a per-key mutex and records the keys.
type MockLocker struct {
	mu   sync.Mutex
	run  map[string]*sync.Mutex
	Keys []string
	Err  error
}

func (l *MockLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	l.Keys = append(l.Keys, key)
	err := l.Err
	if l.run == nil {
		l.run = make(map[string]*sync.Mutex)
	}
	held, ok := l.run[key]
	if !ok {
		held = &sync.Mutex{}
		l.run[key] = held
	}
	l.mu.Unlock()
	if err != nil {
		return err
	}

	held.Lock()
	defer held.Unlock()
	return fn(ctx)
}

// MockTxRunner calls fn directly and counts transactions.
type MockTxRunner struct {
	mu    sync.Mutex
	Calls int
}

func (r *MockTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	r.Calls++
	r.mu.Unlock()
	return fn(ctx)
}

// MockHook records notification events.
type MockHook struct {
	mu     sync.Mutex
	Events []notification.Event
	Err    error
}

func (h *MockHook) Notify(ctx context.Context, event notification.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, event)
	return h.Err
}

// Count returns how many events with key were recorded.
func (h *MockHook) Count(key notification.TemplateKey) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.Events {
		if e.TemplateKey == key {
			n++
		}
	}
	return n
}
