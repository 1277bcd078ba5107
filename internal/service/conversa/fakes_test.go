package conversa

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/sumy-api/internal/config"
	domain "github.com/hugohenrick/sumy-api/internal/domain/conversa"
	"github.com/hugohenrick/sumy-api/internal/domain/user"
	"github.com/hugohenrick/sumy-api/pkg/assistant"
	"github.com/hugohenrick/sumy-api/pkg/logger"
	"github.com/hugohenrick/sumy-api/pkg/tools"
)

func testPollConfig() config.PollConfig {
	return config.PollConfig{
		Interval:         time.Millisecond,
		MaxInterval:      5 * time.Millisecond,
		Multiplier:       1.5,
		MaxWait:          time.Second,
		MaxAttempts:      20,
		MaxToolRounds:    3,
		CancelRunOnAbort: true,
	}
}

// fakeRemote simula a API de assistentes com um roteiro de estados de run
type fakeRemote struct {
	mu sync.Mutex

	sessionSeq int
	appended   map[string][]string
	expired    map[string]bool
	created    []string

	existsErr   error
	startStatus assistant.RunStatus
	// estados devolvidos em sequência por GetRunStatus; o último se repete
	script    []*assistant.RunState
	afterTool []*assistant.RunState
	polls     int
	onPoll    func(n int)

	submitted [][]assistant.ToolOutput
	answers   []assistant.SessionMessage
	cancelled []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		appended:    make(map[string][]string),
		expired:     make(map[string]bool),
		startStatus: assistant.StatusQueued,
		script:      []*assistant.RunState{{RunID: "run_1", Status: assistant.StatusCompleted}},
		answers:     []assistant.SessionMessage{{ID: "m1", Role: "assistant", Text: "Me conta, para o que você gostaria de fazer uma especificação funcional?"}},
	}
}

func (f *fakeRemote) CreateSession(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionSeq++
	id := fmt.Sprintf("thread_%d", f.sessionSeq)
	f.created = append(f.created, id)
	return id, nil
}

func (f *fakeRemote) SessionExists(_ context.Context, sessionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return !f.expired[sessionID], nil
}

func (f *fakeRemote) AppendToSession(_ context.Context, sessionID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended[sessionID] = append(f.appended[sessionID], content)
	return nil
}

func (f *fakeRemote) StartRun(_ context.Context, sessionID string) (*assistant.RunState, error) {
	return &assistant.RunState{SessionID: sessionID, RunID: "run_1", Status: f.startStatus}, nil
}

func (f *fakeRemote) GetRunStatus(_ context.Context, sessionID, runID string) (*assistant.RunState, error) {
	f.mu.Lock()
	f.polls++
	n := f.polls
	var next *assistant.RunState
	if len(f.script) > 1 {
		next, f.script = f.script[0], f.script[1:]
	} else {
		next = f.script[0]
	}
	hook := f.onPoll
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	state := *next
	state.SessionID = sessionID
	state.RunID = runID
	return &state, nil
}

func (f *fakeRemote) SubmitToolOutputs(_ context.Context, sessionID, runID string, outputs []assistant.ToolOutput) (*assistant.RunState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, outputs)
	if f.afterTool != nil {
		f.script = f.afterTool
	}
	return &assistant.RunState{SessionID: sessionID, RunID: runID, Status: assistant.StatusInProgress}, nil
}

func (f *fakeRemote) ListMessages(context.Context, string, string, string) ([]assistant.SessionMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answers, nil
}

func (f *fakeRemote) CancelRun(_ context.Context, _, runID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, runID)
	return nil
}

func (f *fakeRemote) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

// fakeExporter grava o pedido recebido pela ferramenta de exportação
type fakeExporter struct {
	mu  sync.Mutex
	got []tools.ExportRequest
	err error
}

func (f *fakeExporter) ExportSpecification(_ context.Context, req tools.ExportRequest) (*tools.ExportedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	return &tools.ExportedDocument{
		FileName: req.ProjectName + "." + req.Format,
		FileURL:  "http://localhost:8080/files/" + req.ProjectName + "." + req.Format,
	}, nil
}

func newTestRegistry(exp tools.Exporter) *tools.Registry {
	r := tools.NewRegistry(logger.NewNop())
	if err := r.Register(tools.NewExportTool(exp)); err != nil {
		panic(err)
	}
	return r
}

func toolCallState(calls ...assistant.ToolCall) *assistant.RunState {
	return &assistant.RunState{RunID: "run_1", Status: assistant.StatusRequiresAction, ToolCalls: calls}
}

func exportCall(id, project, format string) assistant.ToolCall {
	args, _ := json.Marshal(map[string]string{
		"project_name":   project,
		"specifications": "**Objetivo:** controlar pedidos",
		"format":         format,
	})
	return assistant.ToolCall{ID: id, Name: tools.ExportToolName, Arguments: args}
}

// memRepo é um domain.Repository em memória
type memRepo struct {
	mu        sync.Mutex
	seq       int64
	conversas map[string]*domain.Conversa
	mensagens map[string][]*domain.Mensagem
}

func newMemRepo() *memRepo {
	return &memRepo{
		conversas: make(map[string]*domain.Conversa),
		mensagens: make(map[string][]*domain.Mensagem),
	}
}

func (r *memRepo) Create(_ context.Context, c *domain.Conversa, seed *domain.Mensagem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	cp := *c
	r.conversas[c.ID] = &cp
	if seed != nil {
		seed.ConversaID = c.ID
		r.appendLocked(seed)
	}
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id string) (*domain.Conversa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversas[id]
	if !ok {
		return nil, domain.ErrConversaNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memRepo) ListByUser(_ context.Context, userID string) ([]*domain.Conversa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Conversa, 0)
	for _, c := range r.conversas {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) UpdateSecao(_ context.Context, id, secao string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversas[id]
	if !ok {
		return domain.ErrConversaNotFound
	}
	c.Secao = secao
	return nil
}

func (r *memRepo) AppendMessage(_ context.Context, m *domain.Mensagem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversas[m.ConversaID]; !ok {
		return domain.ErrConversaNotFound
	}
	r.appendLocked(m)
	return nil
}

func (r *memRepo) ListMessages(_ context.Context, conversaID string) ([]*domain.Mensagem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Mensagem, len(r.mensagens[conversaID]))
	copy(out, r.mensagens[conversaID])
	return out, nil
}

func (r *memRepo) SaveReply(_ context.Context, conversaID, threadID string, reply *domain.Mensagem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversas[conversaID]
	if !ok {
		return domain.ErrConversaNotFound
	}
	c.ThreadID = &threadID
	reply.ConversaID = conversaID
	r.appendLocked(reply)
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversas[id]; !ok {
		return domain.ErrConversaNotFound
	}
	delete(r.mensagens, id)
	delete(r.conversas, id)
	return nil
}

func (r *memRepo) appendLocked(m *domain.Mensagem) {
	r.seq++
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.Seq = r.seq
	m.CreatedAt = time.Now()
	cp := *m
	r.mensagens[m.ConversaID] = append(r.mensagens[m.ConversaID], &cp)
}

func (r *memRepo) contents(conversaID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0)
	for _, m := range r.mensagens[conversaID] {
		out = append(out, string(m.Role)+":"+m.Content)
	}
	return out
}

// fakeUsers é um user.Repository em memória
type fakeUsers struct {
	users map[string]*user.User
}

func newFakeUsers(users ...*user.User) *fakeUsers {
	f := &fakeUsers{users: make(map[string]*user.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *user.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}
