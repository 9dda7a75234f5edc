package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimeet/internal/meetings/validator"
	"unimeet/pkg/clock"
	mongotx "unimeet/pkg/db/mongo"
	apperrors "unimeet/pkg/errors"
	"unimeet/pkg/logger"
	"unimeet/pkg/model"
)

const (
	testStudentID  = "65a000000000000000000001"
	testRepID      = "65a000000000000000000002"
	testInstID     = "65a000000000000000000003"
	testStudentID2 = "65a000000000000000000004"
)

// 2026-01-05 is a Monday.
var testMonday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})
}

func newTestService(
	meetings *mockMeetingRepository,
	holds *mockHoldRepository,
	audit *mockAuditRepository,
	availability *mockAvailabilityRepository,
	n *recordingNotifier,
	clk clock.Clock,
) *meetingService {
	log := testLogger()
	return &meetingService{
		meetings:     meetings,
		holds:        holds,
		audit:        audit,
		availability: availability,
		validator:    validator.NewMeetingValidator(log),
		notifier:     n,
		clock:        clk,
		holdTTL:      5 * time.Minute,
		logger:       log,
	}
}

func mondayRule(autoConfirm bool) *model.AvailabilityRule {
	return &model.AvailabilityRule{
		ID:               "65a000000000000000000010",
		RepresentativeID: testRepID,
		InstitutionID:    testInstID,
		Weekday:          model.Monday,
		StartOfDay:       "09:00",
		EndOfDay:         "17:00",
		DurationsMin:     []int{30},
		AutoConfirm:      autoConfirm,
		Active:           true,
	}
}

func bookingRequest(start time.Time) *model.BookingRequest {
	return &model.BookingRequest{
		StudentID:        testStudentID,
		RepresentativeID: testRepID,
		StartTime:        start,
		DurationMin:      30,
		Purpose:          "Discuss the computer science master's program",
	}
}

func ruleRepo(rules ...*model.AvailabilityRule) *mockAvailabilityRepository {
	return &mockAvailabilityRepository{
		findByRepFunc: func(ctx context.Context, representativeID string) ([]*model.AvailabilityRule, error) {
			return rules, nil
		},
	}
}

func TestBook_AutoConfirmRuleYieldsConfirmedMeeting(t *testing.T) {
	audit := &mockAuditRepository{}
	n := &recordingNotifier{}
	svc := newTestService(
		&mockMeetingRepository{},
		&mockHoldRepository{},
		audit,
		ruleRepo(mondayRule(true)),
		n,
		clock.NewFake(testMonday),
	)

	meeting, err := svc.Book(context.Background(), bookingRequest(testMonday.Add(9*time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, model.StatusConfirmed, meeting.Status)
	assert.Equal(t, testInstID, meeting.InstitutionID)
	assert.Equal(t, testMonday.Add(9*time.Hour+30*time.Minute), meeting.EndTime)
	assert.NotEmpty(t, meeting.Code)

	entries := audit.recorded()
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditCreated, entries[0].Action)
	assert.Equal(t, model.StatusConfirmed, entries[0].NewStatus)
	assert.Equal(t, testStudentID, entries[0].ActorID)

	assert.Equal(t, []string{"created", "confirmed"}, n.recorded())
}

func TestBook_ManualApprovalRuleYieldsPendingMeeting(t *testing.T) {
	n := &recordingNotifier{}
	svc := newTestService(
		&mockMeetingRepository{},
		&mockHoldRepository{},
		&mockAuditRepository{},
		ruleRepo(mondayRule(false)),
		n,
		clock.NewFake(testMonday),
	)

	meeting, err := svc.Book(context.Background(), bookingRequest(testMonday.Add(10*time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, meeting.Status)
	assert.Equal(t, []string{"created"}, n.recorded())
}

func TestBook_NoRuleCoversRequestedTime(t *testing.T) {
	svc := newTestService(
		&mockMeetingRepository{},
		&mockHoldRepository{},
		&mockAuditRepository{},
		ruleRepo(mondayRule(true)),
		&recordingNotifier{},
		clock.NewFake(testMonday),
	)

	// Tuesday is outside the Monday rule.
	_, err := svc.Book(context.Background(), bookingRequest(testMonday.AddDate(0, 0, 1).Add(9*time.Hour)))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNoRepresentative))
}

func TestBook_UnsupportedDurationIsRejected(t *testing.T) {
	svc := newTestService(
		&mockMeetingRepository{},
		&mockHoldRepository{},
		&mockAuditRepository{},
		ruleRepo(mondayRule(true)),
		&recordingNotifier{},
		clock.NewFake(testMonday),
	)

	req := bookingRequest(testMonday.Add(9 * time.Hour))
	req.DurationMin = 45

	_, err := svc.Book(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNoRepresentative))
}

func TestBook_LeadTimeViolation(t *testing.T) {
	rule := mondayRule(true)
	rule.MinLeadTimeHours = 24

	svc := newTestService(
		&mockMeetingRepository{},
		&mockHoldRepository{},
		&mockAuditRepository{},
		ruleRepo(rule),
		&recordingNotifier{},
		clock.NewFake(testMonday),
	)

	_, err := svc.Book(context.Background(), bookingRequest(testMonday.Add(9*time.Hour)))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestBook_DailyCapReached(t *testing.T) {
	rule := mondayRule(true)
	rule.DailyCap = 2

	meetings := &mockMeetingRepository{
		countActiveFunc: func(ctx context.Context, representativeID string, dayStart, dayEnd time.Time) (int64, error) {
			return 2, nil
		},
	}

	svc := newTestService(
		meetings,
		&mockHoldRepository{},
		&mockAuditRepository{},
		ruleRepo(rule),
		&recordingNotifier{},
		clock.NewFake(testMonday),
	)

	_, err := svc.Book(context.Background(), bookingRequest(testMonday.Add(9*time.Hour)))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestBook_SlotHeldByAnotherStudent(t *testing.T) {
	start := testMonday.Add(9 * time.Hour)
	holds := &mockHoldRepository{
		findByWindowFunc: func(ctx context.Context, representativeID string, s, e time.Time, now time.Time) ([]*model.Hold, error) {
			return []*model.Hold{{
				ID:               "11111111-1111-4111-8111-111111111111",
				RepresentativeID: testRepID,
				StartTime:        start,
				HolderID:         testStudentID2,
				ExpiresAt:        now.Add(time.Minute),
			}}, nil
		},
	}

	svc := newTestService(
		&mockMeetingRepository{},
		holds,
		&mockAuditRepository{},
		ruleRepo(mondayRule(true)),
		&recordingNotifier{},
		clock.NewFake(testMonday),
	)

	_, err := svc.Book(context.Background(), bookingRequest(start))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeHeldByOther))
}

func TestBook_OwnHoldIsConsumedInTransaction(t *testing.T) {
	start := testMonday.Add(9 * time.Hour)
	holdID := "22222222-2222-4222-8222-222222222222"

	var deletedHoldID string
	holds := &mockHoldRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Hold, error) {
			return &model.Hold{
				ID:               holdID,
				RepresentativeID: testRepID,
				StartTime:        start,
				HolderID:         testStudentID,
				ExpiresAt:        testMonday.Add(5 * time.Minute),
			}, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deletedHoldID = id
			return nil
		},
	}

	svc := newTestService(
		&mockMeetingRepository{},
		holds,
		&mockAuditRepository{},
		ruleRepo(mondayRule(true)),
		&recordingNotifier{},
		clock.NewFake(testMonday),
	)

	req := bookingRequest(start)
	req.HoldID = holdID

	_, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, holdID, deletedHoldID)
}

func TestBook_HoldOwnedByAnotherStudentIsRejected(t *testing.T) {
	start := testMonday.Add(9 * time.Hour)
	holdID := "33333333-3333-4333-8333-333333333333"

	holds := &mockHoldRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Hold, error) {
			return &model.Hold{
				ID:               holdID,
				RepresentativeID: testRepID,
				StartTime:        start,
				HolderID:         testStudentID2,
				ExpiresAt:        testMonday.Add(5 * time.Minute),
			}, nil
		},
	}

	svc := newTestService(
		&mockMeetingRepository{},
		holds,
		&mockAuditRepository{},
		ruleRepo(mondayRule(true)),
		&recordingNotifier{},
		clock.NewFake(testMonday),
	)

	req := bookingRequest(start)
	req.HoldID = holdID

	_, err := svc.Book(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

// Two concurrent bookings for the same slot must produce exactly one meeting.
// The mock transaction serializes like Mongo does, so the second request sees
// the first one's committed meeting during its overlap re-check.
func TestBook_ConcurrentRequestsSingleWinner(t *testing.T) {
	start := testMonday.Add(9 * time.Hour)

	var txMu sync.Mutex
	var committed []*model.Meeting

	meetings := &mockMeetingRepository{}
	meetings.findOverlappingFunc = func(ctx context.Context, representativeID string, s, e time.Time) ([]*model.Meeting, error) {
		var out []*model.Meeting
		for _, m := range committed {
			if m.Overlaps(s, e) {
				out = append(out, m)
			}
		}
		return out, nil
	}
	meetings.createFunc = func(ctx context.Context, meeting *model.Meeting) error {
		meeting.ID = "65a000000000000000000099"
		committed = append(committed, meeting)
		return nil
	}
	meetings.executeTxFunc = func(ctx context.Context, fn mongotx.TransactionFunc) error {
		txMu.Lock()
		defer txMu.Unlock()
		return fn(nil)
	}

	svc := newTestService(
		meetings,
		&mockHoldRepository{},
		&mockAuditRepository{},
		ruleRepo(mondayRule(true)),
		&recordingNotifier{},
		clock.NewFake(testMonday),
	)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := bookingRequest(start)
			if i == 1 {
				req.StudentID = testStudentID2
			}
			_, results[i] = svc.Book(context.Background(), req)
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case apperrors.IsCode(err, apperrors.CodeSlotTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, committed, 1)
}
