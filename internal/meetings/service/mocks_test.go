package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	mongotx "unimeet/pkg/db/mongo"
	"unimeet/pkg/model"
)

type mockMeetingRepository struct {
	createFunc          func(ctx context.Context, meeting *model.Meeting) error
	findByIDFunc        func(ctx context.Context, id string) (*model.Meeting, error)
	updateFunc          func(ctx context.Context, id string, meeting *model.Meeting) (*mongo.UpdateResult, error)
	findOverlappingFunc func(ctx context.Context, representativeID string, start, end time.Time) ([]*model.Meeting, error)
	findByWindowFunc    func(ctx context.Context, representativeID string, start, end time.Time) ([]*model.Meeting, error)
	countActiveFunc     func(ctx context.Context, representativeID string, dayStart, dayEnd time.Time) (int64, error)
	findByStudentFunc   func(ctx context.Context, studentID string, limit int, offset int64) ([]*model.Meeting, error)
	countByStudentFunc  func(ctx context.Context, studentID string) (int64, error)
	findByRepFunc       func(ctx context.Context, representativeID string, limit int, offset int64) ([]*model.Meeting, error)
	countByRepFunc      func(ctx context.Context, representativeID string) (int64, error)
	executeTxFunc       func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockMeetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, meeting)
	}
	meeting.ID = "65a000000000000000000099"
	return nil
}

func (m *mockMeetingRepository) FindByID(ctx context.Context, id string) (*model.Meeting, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockMeetingRepository) Update(ctx context.Context, id string, meeting *model.Meeting) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, meeting)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockMeetingRepository) FindOverlapping(ctx context.Context, representativeID string, start, end time.Time) ([]*model.Meeting, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, representativeID, start, end)
	}
	return nil, nil
}

func (m *mockMeetingRepository) FindByRepresentativeAndWindow(ctx context.Context, representativeID string, start, end time.Time) ([]*model.Meeting, error) {
	if m.findByWindowFunc != nil {
		return m.findByWindowFunc(ctx, representativeID, start, end)
	}
	return nil, nil
}

func (m *mockMeetingRepository) CountActiveOnDay(ctx context.Context, representativeID string, dayStart, dayEnd time.Time) (int64, error) {
	if m.countActiveFunc != nil {
		return m.countActiveFunc(ctx, representativeID, dayStart, dayEnd)
	}
	return 0, nil
}

func (m *mockMeetingRepository) FindByStudent(ctx context.Context, studentID string, limit int, offset int64) ([]*model.Meeting, error) {
	if m.findByStudentFunc != nil {
		return m.findByStudentFunc(ctx, studentID, limit, offset)
	}
	return nil, nil
}

func (m *mockMeetingRepository) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	if m.countByStudentFunc != nil {
		return m.countByStudentFunc(ctx, studentID)
	}
	return 0, nil
}

func (m *mockMeetingRepository) FindByRepresentative(ctx context.Context, representativeID string, limit int, offset int64) ([]*model.Meeting, error) {
	if m.findByRepFunc != nil {
		return m.findByRepFunc(ctx, representativeID, limit, offset)
	}
	return nil, nil
}

func (m *mockMeetingRepository) CountByRepresentative(ctx context.Context, representativeID string) (int64, error) {
	if m.countByRepFunc != nil {
		return m.countByRepFunc(ctx, representativeID)
	}
	return 0, nil
}

func (m *mockMeetingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeTxFunc != nil {
		return m.executeTxFunc(ctx, fn)
	}
	return fn(nil)
}

type mockHoldRepository struct {
	mu sync.Mutex

	acquireFunc       func(ctx context.Context, hold *model.Hold) error
	findByIDFunc      func(ctx context.Context, id string) (*model.Hold, error)
	deleteFunc        func(ctx context.Context, id string) error
	deleteExpiredFunc func(ctx context.Context, representativeID string, now time.Time) (int64, error)
	findByWindowFunc  func(ctx context.Context, representativeID string, start, end time.Time, now time.Time) ([]*model.Hold, error)
}

func (m *mockHoldRepository) Acquire(ctx context.Context, hold *model.Hold) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, hold)
	}
	return nil
}

func (m *mockHoldRepository) FindByID(ctx context.Context, id string) (*model.Hold, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockHoldRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockHoldRepository) DeleteExpired(ctx context.Context, representativeID string, now time.Time) (int64, error) {
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx, representativeID, now)
	}
	return 0, nil
}

func (m *mockHoldRepository) FindByRepresentativeAndWindow(ctx context.Context, representativeID string, start, end time.Time, now time.Time) ([]*model.Hold, error) {
	if m.findByWindowFunc != nil {
		return m.findByWindowFunc(ctx, representativeID, start, end, now)
	}
	return nil, nil
}

type mockAuditRepository struct {
	mu      sync.Mutex
	entries []*model.AuditEntry

	appendFunc        func(ctx context.Context, entry *model.AuditEntry) error
	findByMeetingFunc func(ctx context.Context, meetingID string) ([]*model.AuditEntry, error)
}

func (m *mockAuditRepository) Append(ctx context.Context, entry *model.AuditEntry) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepository) FindByMeeting(ctx context.Context, meetingID string) ([]*model.AuditEntry, error) {
	if m.findByMeetingFunc != nil {
		return m.findByMeetingFunc(ctx, meetingID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.AuditEntry
	for _, e := range m.entries {
		if e.MeetingID == meetingID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockAuditRepository) recorded() []*model.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

type mockAvailabilityRepository struct {
	createFunc     func(ctx context.Context, rule *model.AvailabilityRule) error
	findByIDFunc   func(ctx context.Context, id string) (*model.AvailabilityRule, error)
	updateFunc     func(ctx context.Context, id string, rule *model.AvailabilityRule) error
	deleteFunc     func(ctx context.Context, id string) error
	findByRepFunc  func(ctx context.Context, representativeID string) ([]*model.AvailabilityRule, error)
	findByInstFunc func(ctx context.Context, institutionID string) ([]*model.AvailabilityRule, error)
}

func (m *mockAvailabilityRepository) Create(ctx context.Context, rule *model.AvailabilityRule) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, rule)
	}
	return nil
}

func (m *mockAvailabilityRepository) FindByID(ctx context.Context, id string) (*model.AvailabilityRule, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAvailabilityRepository) Update(ctx context.Context, id string, rule *model.AvailabilityRule) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, rule)
	}
	return nil
}

func (m *mockAvailabilityRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockAvailabilityRepository) FindByRepresentative(ctx context.Context, representativeID string) ([]*model.AvailabilityRule, error) {
	if m.findByRepFunc != nil {
		return m.findByRepFunc(ctx, representativeID)
	}
	return nil, nil
}

func (m *mockAvailabilityRepository) FindByInstitution(ctx context.Context, institutionID string) ([]*model.AvailabilityRule, error) {
	if m.findByInstFunc != nil {
		return m.findByInstFunc(ctx, institutionID)
	}
	return nil, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) record(event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) recorded() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	copy(out, n.events)
	return out
}

func (n *recordingNotifier) MeetingCreated(_ context.Context, _ *model.Meeting)     { n.record("created") }
func (n *recordingNotifier) MeetingConfirmed(_ context.Context, _ *model.Meeting)   { n.record("confirmed") }
func (n *recordingNotifier) MeetingRejected(_ context.Context, _ *model.Meeting)    { n.record("rejected") }
func (n *recordingNotifier) MeetingCancelled(_ context.Context, _ *model.Meeting)   { n.record("cancelled") }
func (n *recordingNotifier) MeetingCompleted(_ context.Context, _ *model.Meeting)   { n.record("completed") }
func (n *recordingNotifier) MeetingNoShow(_ context.Context, _ *model.Meeting)      { n.record("no_show") }
func (n *recordingNotifier) RescheduleProposed(_ context.Context, _ *model.Meeting) { n.record("reschedule_proposed") }
func (n *recordingNotifier) ReminderDue(_ context.Context, _ *model.Meeting)        { n.record("reminder_due") }
