package attendance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerjapoint/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjapoint/attendance-backend-go/internal/domain/audit"
	"github.com/kerjapoint/attendance-backend-go/internal/domain/outlet"
	"github.com/kerjapoint/attendance-backend-go/internal/domain/schedule"
	"github.com/kerjapoint/attendance-backend-go/internal/pkg/clock"
)

// ===== fakes =====

type fakeSessionRepo struct {
	sessions map[string]*attendance.Session
	nextID   int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*attendance.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	r.nextID++
	s.ID = fmt.Sprintf("session-%d", r.nextID)
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	copied := s
	r.sessions[s.ID] = &copied
	return s, nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return *s, nil
}

func (r *fakeSessionRepo) GetOpenByUser(ctx context.Context, userID string) (attendance.Session, error) {
	for _, s := range r.sessions {
		if s.UserID == userID && s.IsOpen() {
			return *s, nil
		}
	}
	return attendance.Session{}, attendance.ErrSessionNotFound
}

func (r *fakeSessionRepo) ListOpen(ctx context.Context) ([]attendance.Session, error) {
	var open []attendance.Session
	for _, s := range r.sessions {
		if s.IsOpen() {
			open = append(open, *s)
		}
	}
	return open, nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, s attendance.Session) error {
	if _, ok := r.sessions[s.ID]; !ok {
		return attendance.ErrSessionNotFound
	}
	copied := s
	r.sessions[s.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) CloseAutomatically(ctx context.Context, fc attendance.ForceClose) error {
	return errors.New("not implemented")
}

type fakeOutletRepo struct {
	outlets map[string]*outlet.Outlet
}

func (r *fakeOutletRepo) GetByID(ctx context.Context, id string) (*outlet.Outlet, error) {
	o, ok := r.outlets[id]
	if !ok {
		return nil, outlet.ErrOutletNotFound
	}
	return o, nil
}

func (r *fakeOutletRepo) ListByCompany(ctx context.Context, companyID string) ([]outlet.Outlet, error) {
	return nil, errors.New("not implemented")
}

type fakeSink struct {
	events []audit.Event
}

func (s *fakeSink) LogCheckout(ctx context.Context, event audit.Event) error {
	s.events = append(s.events, event)
	return nil
}

// ===== fixtures =====

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func testOutlet(t *testing.T) (*outlet.Outlet, *time.Location) {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return &outlet.Outlet{
		ID:                       "outlet-1",
		CompanyID:                "company-1",
		Name:                     "Central Park",
		OperationalStartTime:     strPtr("09:00"),
		OperationalEndTime:       strPtr("18:00"),
		Timezone:                 strPtr("Asia/Jakarta"),
		OvertimeThresholdMinutes: intPtr(60),
		LateToleranceMinutes:     10,
		EarlyCheckoutTolerance:   15,
		Latitude:                 -6.1754,
		Longitude:                106.7900,
		RadiusMeters:             100,
	}, loc
}

func newTestService(sessions *fakeSessionRepo, outlets *fakeOutletRepo, now time.Time, sink audit.Sink) attendance.AttendanceService {
	return NewAttendanceService(sessions, outlets, schedule.NewResolver(time.UTC), clock.Fixed(now), sink)
}

func checkInReq(userID string) attendance.CheckInRequest {
	selfie := "selfies/in.jpg"
	return attendance.CheckInRequest{
		UserID:     userID,
		OutletID:   "outlet-1",
		Latitude:   -6.1754,
		Longitude:  106.7901,
		SelfiePath: &selfie,
	}
}

// ===== tests =====

func TestCheckIn_Success(t *testing.T) {
	out, loc := testOutlet(t)
	outlets := &fakeOutletRepo{outlets: map[string]*outlet.Outlet{out.ID: out}}
	sessions := newFakeSessionRepo()
	sink := &fakeSink{}

	now := time.Date(2024, 3, 11, 9, 5, 0, 0, loc)
	svc := newTestService(sessions, outlets, now, sink)

	resp, err := svc.CheckIn(context.Background(), checkInReq("user-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, attendance.StatusOpen, resp.Status)
	assert.Nil(t, resp.CheckOutTime)
	require.NotNil(t, resp.LateMinutes)
	assert.Equal(t, 0, *resp.LateMinutes) // 5 min late, inside the 10 min grace

	stored, err := sessions.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsOpen())
	assert.True(t, stored.CheckInSelfiePresent)

	require.Len(t, sink.events, 1)
	assert.Equal(t, audit.KindCheckIn, sink.events[0].Kind)
}

func TestCheckIn_LateBeyondTolerance(t *testing.T) {
	out, loc := testOutlet(t)
	outlets := &fakeOutletRepo{outlets: map[string]*outlet.Outlet{out.ID: out}}
	sessions := newFakeSessionRepo()

	now := time.Date(2024, 3, 11, 9, 20, 0, 0, loc)
	svc := newTestService(sessions, outlets, now, &fakeSink{})

	resp, err := svc.CheckIn(context.Background(), checkInReq("user-1"))
	require.NoError(t, err)
	require.NotNil(t, resp.LateMinutes)
	assert.Equal(t, 10, *resp.LateMinutes)
}

func TestCheckIn_OutsideRadius(t *testing.T) {
	out, loc := testOutlet(t)
	outlets := &fakeOutletRepo{outlets: map[string]*outlet.Outlet{out.ID: out}}
	sessions := newFakeSessionRepo()

	now := time.Date(2024, 3, 11, 9, 0, 0, 0, loc)
	svc := newTestService(sessions, outlets, now, &fakeSink{})

	req := checkInReq("user-1")
	req.Latitude = -6.3000 // ~14 km away
	_, err := svc.CheckIn(context.Background(), req)
	assert.ErrorIs(t, err, attendance.ErrOutsideAllowedRadius)
	assert.Empty(t, sessions.sessions)
}

func TestCheckIn_AlreadyCheckedIn(t *testing.T) {
	out, loc := testOutlet(t)
	outlets := &fakeOutletRepo{outlets: map[string]*outlet.Outlet{out.ID: out}}
	sessions := newFakeSessionRepo()

	now := time.Date(2024, 3, 11, 9, 0, 0, 0, loc)
	svc := newTestService(sessions, outlets, now, &fakeSink{})

	_, err := svc.CheckIn(context.Background(), checkInReq("user-1"))
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), checkInReq("user-1"))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_ValidationError(t *testing.T) {
	out, loc := testOutlet(t)
	outlets := &fakeOutletRepo{outlets: map[string]*outlet.Outlet{out.ID: out}}

	now := time.Date(2024, 3, 11, 9, 0, 0, 0, loc)
	svc := newTestService(newFakeSessionRepo(), outlets, now, &fakeSink{})

	req := checkInReq("")
	_, err := svc.CheckIn(context.Background(), req)
	assert.Error(t, err)
}

func TestCheckIn_OutletNotFound(t *testing.T) {
	outlets := &fakeOutletRepo{outlets: map[string]*outlet.Outlet{}}
	svc := newTestService(newFakeSessionRepo(), outlets, time.Now(), &fakeSink{})

	_, err := svc.CheckIn(context.Background(), checkInReq("user-1"))
	assert.ErrorIs(t, err, outlet.ErrOutletNotFound)
}

func TestCheckOut_EarlyBeyondTolerance(t *testing.T) {
	out, loc := testOutlet(t)
	outlets := &fakeOutletRepo{outlets: map[string]*outlet.Outlet{out.ID: out}}
	sessions := newFakeSessionRepo()
	sink := &fakeSink{}

	checkInAt := time.Date(2024, 3, 11, 9, 5, 0, 0, loc)
	svc := newTestService(sessions, outlets, checkInAt, sink)
	_, err := svc.CheckIn(context.Background(), checkInReq("user-1"))
	require.NoError(t, err)

	// Check out at 17:00, an hour before close with 15 min tolerance.
	checkOutAt := time.Date(2024, 3, 11, 17, 0, 0, 0, loc)
	svc = newTestService(sessions, outlets, checkOutAt, sink)

	selfie := "selfies/out.jpg"
	resp, err := svc.CheckOut(context.Background(), attendance.CheckOutRequest{
		UserID:     "user-1",
		Latitude:   -6.1754,
		Longitude:  106.7901,
		SelfiePath: &selfie,
	})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusCheckedOut, resp.Status)
	require.NotNil(t, resp.EarlyCheckoutMinutes)
	assert.Equal(t, 45, *resp.EarlyCheckoutMinutes)
	require.NotNil(t, resp.WorkDurationMinutes)
	assert.Equal(t, 475, *resp.WorkDurationMinutes)
	assert.False(t, resp.IsOvertime)
	require.NotNil(t, resp.AttendanceStatus)
	assert.Equal(t, string(schedule.StatusEarlyCheckout), *resp.AttendanceStatus)

	stored, err := sessions.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsOpen())
	assert.True(t, stored.CheckOutSelfiePresent)
	require.NotNil(t, stored.CheckOutSelfiePath)

	// check-in then check-out
	require.Len(t, sink.events, 2)
	assert.Equal(t, audit.KindCheckOut, sink.events[1].Kind)
}

func TestCheckOut_OvertimeBeyondThreshold(t *testing.T) {
	out, loc := testOutlet(t)
	outlets := &fakeOutletRepo{outlets: map[string]*outlet.Outlet{out.ID: out}}
	sessions := newFakeSessionRepo()

	checkInAt := time.Date(2024, 3, 11, 9, 0, 0, 0, loc)
	svc := newTestService(sessions, outlets, checkInAt, &fakeSink{})
	_, err := svc.CheckIn(context.Background(), checkInReq("user-1"))
	require.NoError(t, err)

	// 19:30 is 90 minutes past close; threshold eats 60 of them.
	checkOutAt := time.Date(2024, 3, 11, 19, 30, 0, 0, loc)
	svc = newTestService(sessions, outlets, checkOutAt, &fakeSink{})

	resp, err := svc.CheckOut(context.Background(), attendance.CheckOutRequest{
		UserID:    "user-1",
		Latitude:  -6.1754,
		Longitude: 106.7901,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.OvertimeMinutes)
	assert.Equal(t, 30, *resp.OvertimeMinutes)
	assert.True(t, resp.IsOvertime)
	require.NotNil(t, resp.AttendanceStatus)
	assert.Equal(t, string(schedule.StatusOvertime), *resp.AttendanceStatus)
}

func TestCheckOut_NotCheckedIn(t *testing.T) {
	out, _ := testOutlet(t)
	outlets := &fakeOutletRepo{outlets: map[string]*outlet.Outlet{out.ID: out}}
	svc := newTestService(newFakeSessionRepo(), outlets, time.Now(), &fakeSink{})

	_, err := svc.CheckOut(context.Background(), attendance.CheckOutRequest{
		UserID:    "user-1",
		Latitude:  -6.1754,
		Longitude: 106.7901,
	})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestGetOpenSession(t *testing.T) {
	out, loc := testOutlet(t)
	outlets := &fakeOutletRepo{outlets: map[string]*outlet.Outlet{out.ID: out}}
	sessions := newFakeSessionRepo()

	now := time.Date(2024, 3, 11, 9, 0, 0, 0, loc)
	svc := newTestService(sessions, outlets, now, &fakeSink{})

	_, err := svc.GetOpenSession(context.Background(), "user-1")
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	created, err := svc.CheckIn(context.Background(), checkInReq("user-1"))
	require.NoError(t, err)

	got, err := svc.GetOpenSession(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestListOpenSessions(t *testing.T) {
	out, loc := testOutlet(t)
	outlets := &fakeOutletRepo{outlets: map[string]*outlet.Outlet{out.ID: out}}
	sessions := newFakeSessionRepo()

	now := time.Date(2024, 3, 11, 9, 0, 0, 0, loc)
	svc := newTestService(sessions, outlets, now, &fakeSink{})

	list, err := svc.ListOpenSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.CheckIn(context.Background(), checkInReq("user-1"))
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), checkInReq("user-2"))
	require.NoError(t, err)

	list, err = svc.ListOpenSessions(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
