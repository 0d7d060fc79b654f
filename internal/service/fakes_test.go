package service

import (
	"context"
	"sync"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// passthroughTxManager runs the callback directly, no transaction semantics
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// failingTxManager always fails with the configured error
type failingTxManager struct {
	err error
}

func (f failingTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return f.err
}

// fakeRequestRepo keeps requests in memory. GetByID returns copies so service
// mutations only land in the store through Update/UpdateStageGuarded, the same
// visibility the real repository has. The afterGet hook lets tests interleave
// a competing write between the read and the guarded update.
type fakeRequestRepo struct {
	mu       sync.Mutex
	store    map[string]*model.WithdrawalRequest
	afterGet func()
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{store: make(map[string]*model.WithdrawalRequest)}
}

func (r *fakeRequestRepo) put(req *model.WithdrawalRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.store[req.ID.String()] = &cp
}

func (r *fakeRequestRepo) get(id string) *model.WithdrawalRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req, ok := r.store[id]; ok {
		cp := *req
		return &cp
	}
	return nil
}

func (r *fakeRequestRepo) Create(ctx context.Context, req *model.WithdrawalRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	r.put(req)
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string) (*model.WithdrawalRequest, error) {
	req := r.get(id)
	if req == nil {
		return nil, gorm.ErrRecordNotFound
	}
	if r.afterGet != nil {
		r.afterGet()
	}
	return req, nil
}

func (r *fakeRequestRepo) GetAll(ctx context.Context) ([]model.WithdrawalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.WithdrawalRequest, 0, len(r.store))
	for _, req := range r.store {
		out = append(out, *req)
	}
	return out, nil
}

func (r *fakeRequestRepo) List(ctx context.Context, filter repository.RequestFilter) ([]model.WithdrawalRequest, int64, error) {
	all, _ := r.GetAll(ctx)
	var out []model.WithdrawalRequest
	for _, req := range all {
		if filter.Stage != "" && req.CurrentStage != filter.Stage {
			continue
		}
		if filter.Country != "" && req.Country != filter.Country {
			continue
		}
		if filter.Priority != "" && req.Priority != filter.Priority {
			continue
		}
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) Search(ctx context.Context, term string) ([]model.WithdrawalRequest, error) {
	all, _ := r.GetAll(ctx)
	return all, nil
}

func (r *fakeRequestRepo) UpdateStageGuarded(ctx context.Context, id string, from model.RequestStage, fields map[string]interface{}) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.store[id]
	if !ok || req.CurrentStage != from {
		return 0, nil
	}

	if v, ok := fields["current_stage"].(model.RequestStage); ok {
		req.CurrentStage = v
	}
	if v, ok := fields["status"].(string); ok {
		req.Status = v
	}
	if v, ok := fields["assigned_to"].(string); ok {
		req.AssignedTo = v
	}
	if v, ok := fields["processing_days"].(int); ok {
		req.ProcessingDays = v
	}
	if v, ok := fields["updated_at"].(time.Time); ok {
		req.UpdatedAt = v
	}
	return 1, nil
}

// fakeTimelineRepo appends events to a slice in call order
type fakeTimelineRepo struct {
	mu     sync.Mutex
	events []model.TimelineEvent
}

func newFakeTimelineRepo() *fakeTimelineRepo {
	return &fakeTimelineRepo{}
}

func (r *fakeTimelineRepo) Create(ctx context.Context, event *model.TimelineEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeTimelineRepo) ListByRequestID(ctx context.Context, requestID string) ([]model.TimelineEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.TimelineEvent
	for _, ev := range r.events {
		if ev.RequestID.String() == requestID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakeTimelineRepo) Stats(ctx context.Context, requestID string) (repository.TimelineStats, error) {
	events, _ := r.ListByRequestID(ctx, requestID)
	stats := repository.TimelineStats{EventCount: int64(len(events))}
	if len(events) > 0 {
		last := events[len(events)-1].CreatedAt
		stats.LastActivity = &last
	}
	return stats, nil
}

func (r *fakeTimelineRepo) forRequest(requestID uuid.UUID) []model.TimelineEvent {
	events, _ := r.ListByRequestID(context.Background(), requestID.String())
	return events
}

// fakeCommentRepo appends comments to a slice in call order
type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []model.RequestComment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *model.RequestComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByRequestID(ctx context.Context, requestID string) ([]model.RequestComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.RequestComment
	for _, cm := range r.comments {
		if cm.RequestID.String() == requestID {
			out = append(out, cm)
		}
	}
	return out, nil
}

// recordingNotifier captures notifications for assertion
type recordingNotifier struct {
	mu    sync.Mutex
	kinds []string
	refs  []string
}

func (n *recordingNotifier) Notify(kind, refNumber string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	n.refs = append(n.refs, refNumber)
}

// stubRefGenerator yields fixed reference numbers
type stubRefGenerator struct {
	project string
	ref     string
}

func (g stubRefGenerator) ProjectNumber() string { return g.project }

func (g stubRefGenerator) RefNumber() string { return g.ref }

// testEngine bundles the workflow engine with its fakes
type testEngine struct {
	svc      *requestService
	requests *fakeRequestRepo
	timeline *fakeTimelineRepo
	notifier *recordingNotifier
}

func newTestEngine(now time.Time) *testEngine {
	requests := newFakeRequestRepo()
	timeline := newFakeTimelineRepo()
	notifier := &recordingNotifier{}

	svc := NewRequestService(
		requests,
		timeline,
		passthroughTxManager{},
		stubRefGenerator{project: "ADFD-000001-001", ref: "REF-2026-0001"},
		notifier,
	).(*requestService)
	svc.now = func() time.Time { return now }

	return &testEngine{svc: svc, requests: requests, timeline: timeline, notifier: notifier}
}

// seedRequest inserts a request directly into the store, bypassing the engine
func (e *testEngine) seedRequest(stage model.RequestStage, createdAt time.Time) *model.WithdrawalRequest {
	req := &model.WithdrawalRequest{
		ID:              uuid.New(),
		ProjectNumber:   "ADFD-000002-002",
		RefNumber:       "REF-2026-0002",
		BeneficiaryName: "Ministry of Infrastructure",
		Country:         "Jordan",
		Currency:        model.CurrencyUSD,
		ValueDate:       createdAt.AddDate(0, 0, 30),
		CurrentStage:    stage,
		Priority:        model.PriorityMedium,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	switch stage {
	case model.StageInitialReview:
		req.Status = model.StatusPendingInitialReview
		req.AssignedTo = model.AssigneeArchiveQueue
	case model.StageTechnicalReview:
		req.Status = model.StatusPendingTechnicalReview
		req.AssignedTo = model.AssigneeOperationsQueue
	case model.StageCoreBanking:
		req.Status = model.StatusApprovedToCoreBanking
		req.AssignedTo = model.AssigneeCoreBankingQueue
	case model.StageDisbursed:
		req.Status = model.StatusDisbursed
	}
	e.requests.put(req)
	return req
}
