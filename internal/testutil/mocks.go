package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/notemeet/notemeet/internal/domain/meeting"
	"github.com/notemeet/notemeet/internal/domain/plan"
	"github.com/notemeet/notemeet/internal/domain/storage"
	"github.com/notemeet/notemeet/internal/domain/subscription"
	"github.com/notemeet/notemeet/internal/domain/user"
	"github.com/notemeet/notemeet/internal/pkg/errors"
)

// MockUserRepository is a mock implementation of user.Repository
type MockUserRepository struct {
	Users       map[int64]*user.User
	EmailIndex  map[string]*user.User
	NextID      int64
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:      make(map[int64]*user.User),
		EmailIndex: make(map[string]*user.User),
		NextID:     1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, ok := m.EmailIndex[u.Email]; ok {
		return errors.Conflict("Email already registered")
	}
	u.ID = m.NextID
	m.NextID++
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.EmailIndex[email]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Users[u.ID]; !ok {
		return errors.NotFound("User")
	}
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if u, ok := m.Users[id]; ok {
		delete(m.EmailIndex, u.Email)
		delete(m.Users, id)
	}
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	var result []*user.User
	for _, u := range m.Users {
		result = append(result, u)
	}
	return result, int64(len(result)), nil
}

// MockPlanRepository is a mock implementation of plan.Repository
type MockPlanRepository struct {
	Plans       map[int64]*plan.Plan
	NextID      int64
	CreateError error
	GetError    error
}

func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{
		Plans:  make(map[int64]*plan.Plan),
		NextID: 1,
	}
}

func (m *MockPlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	p.ID = m.NextID
	m.NextID++
	m.Plans[p.ID] = p
	return nil
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id int64) (*plan.Plan, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	p, ok := m.Plans[id]
	if !ok {
		return nil, errors.NotFound("Plan")
	}
	return p, nil
}

func (m *MockPlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	if _, ok := m.Plans[p.ID]; !ok {
		return errors.NotFound("Plan")
	}
	m.Plans[p.ID] = p
	return nil
}

func (m *MockPlanRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Plans[id]; !ok {
		return errors.NotFound("Plan")
	}
	delete(m.Plans, id)
	return nil
}

func (m *MockPlanRepository) List(ctx context.Context, publicOnly bool) ([]*plan.Plan, error) {
	var result []*plan.Plan
	for _, p := range m.Plans {
		if publicOnly && (!p.IsActive || !p.IsPublic) {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// MockSubscriptionRepository is a mock implementation of
// subscription.Repository. Plans must point at the plan mock so the
// active-subscription join can resolve plan data.
type MockSubscriptionRepository struct {
	Subs        map[int64]*subscription.Subscription
	Plans       *MockPlanRepository
	NextID      int64
	CreateError error
	GetError    error
}

func NewMockSubscriptionRepository(plans *MockPlanRepository) *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		Subs:   make(map[int64]*subscription.Subscription),
		Plans:  plans,
		NextID: 1,
	}
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, s := range m.Subs {
		if s.UserID == sub.UserID && s.PlanID == sub.PlanID && s.Status == subscription.StatusActive {
			return errors.Conflict("Already subscribed to this plan")
		}
	}
	sub.ID = m.NextID
	m.NextID++
	m.Subs[sub.ID] = sub
	return nil
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	s, ok := m.Subs[id]
	if !ok {
		return nil, errors.NotFound("Subscription")
	}
	return s, nil
}

func (m *MockSubscriptionRepository) ListActiveByUser(ctx context.Context, userID int64) ([]*subscription.WithPlan, error) {
	var result []*subscription.WithPlan
	for _, s := range m.Subs {
		if s.UserID != userID || s.Status != subscription.StatusActive {
			continue
		}
		wp := &subscription.WithPlan{Subscription: *s}
		if m.Plans != nil {
			if p, ok := m.Plans.Plans[s.PlanID]; ok {
				wp.Plan = *p
			}
		}
		result = append(result, wp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockSubscriptionRepository) CancelByUserPlan(ctx context.Context, userID, planID int64) (int64, error) {
	var affected int64
	for _, s := range m.Subs {
		if s.UserID == userID && s.PlanID == planID && s.Status == subscription.StatusActive {
			s.Status = subscription.StatusCanceled
			affected++
		}
	}
	return affected, nil
}

func (m *MockSubscriptionRepository) CancelAllByUser(ctx context.Context, userID int64) (int64, error) {
	var affected int64
	for _, s := range m.Subs {
		if s.UserID == userID && s.Status == subscription.StatusActive {
			s.Status = subscription.StatusCanceled
			affected++
		}
	}
	return affected, nil
}

func (m *MockSubscriptionRepository) SetStatus(ctx context.Context, id int64, status string) error {
	s, ok := m.Subs[id]
	if !ok {
		return errors.NotFound("Subscription")
	}
	s.Status = status
	return nil
}

func (m *MockSubscriptionRepository) Renew(ctx context.Context, id int64, startsAt, endsAt time.Time) error {
	s, ok := m.Subs[id]
	if !ok {
		return errors.NotFound("Subscription")
	}
	for _, other := range m.Subs {
		if other.ID != id && other.UserID == s.UserID && other.PlanID == s.PlanID &&
			other.Status == subscription.StatusActive {
			return errors.Conflict("User already holds an active subscription to this plan")
		}
	}
	s.Status = subscription.StatusActive
	s.StartsAt = startsAt
	s.EndsAt = endsAt
	return nil
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Subs[id]; !ok {
		return errors.NotFound("Subscription")
	}
	delete(m.Subs, id)
	return nil
}

func (m *MockSubscriptionRepository) HasActiveEarlyAccess(ctx context.Context, userID int64) (bool, error) {
	for _, s := range m.Subs {
		if s.UserID != userID || s.Status != subscription.StatusActive {
			continue
		}
		if m.Plans != nil {
			if p, ok := m.Plans.Plans[s.PlanID]; ok && p.EarlyAccess {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *MockSubscriptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	var affected int64
	for _, s := range m.Subs {
		if s.Status == subscription.StatusActive && !s.EndsAt.After(now) {
			s.Status = subscription.StatusExpired
			affected++
		}
	}
	return affected, nil
}

// MockMeetingRepository is a mock implementation of meeting.Repository
type MockMeetingRepository struct {
	Meetings    map[int64]*meeting.Meeting
	NextID      int64
	CreateError error
}

func NewMockMeetingRepository() *MockMeetingRepository {
	return &MockMeetingRepository{
		Meetings: make(map[int64]*meeting.Meeting),
		NextID:   1,
	}
}

func (m *MockMeetingRepository) Create(ctx context.Context, mt *meeting.Meeting) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	mt.ID = m.NextID
	m.NextID++
	m.Meetings[mt.ID] = mt
	return nil
}

func (m *MockMeetingRepository) GetByID(ctx context.Context, id int64) (*meeting.Meeting, error) {
	mt, ok := m.Meetings[id]
	if !ok {
		return nil, errors.NotFound("Meeting")
	}
	return mt, nil
}

func (m *MockMeetingRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Meetings[id]; !ok {
		return errors.NotFound("Meeting")
	}
	delete(m.Meetings, id)
	return nil
}

func (m *MockMeetingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*meeting.Meeting, int64, error) {
	var all []*meeting.Meeting
	for _, mt := range m.Meetings {
		if mt.UserID == userID {
			all = append(all, mt)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *MockMeetingRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	for _, mt := range m.Meetings {
		if mt.UserID == userID {
			count++
		}
	}
	return count, nil
}

// MockStorageRepository is a mock implementation of storage.Repository
type MockStorageRepository struct {
	Bytes map[int64]int64
}

func NewMockStorageRepository() *MockStorageRepository {
	return &MockStorageRepository{Bytes: make(map[int64]int64)}
}

func (m *MockStorageRepository) Get(ctx context.Context, userID int64) (*storage.UserStorage, error) {
	return &storage.UserStorage{
		UserID:           userID,
		UsedStorageBytes: m.Bytes[userID],
		UpdatedAt:        time.Now(),
	}, nil
}

func (m *MockStorageRepository) Add(ctx context.Context, userID int64, delta int64) error {
	total := m.Bytes[userID] + delta
	if total < 0 {
		total = 0
	}
	m.Bytes[userID] = total
	return nil
}
