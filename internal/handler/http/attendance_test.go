package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kerjapoint/attendance-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttendanceService struct {
	checkInResp  attendance.SessionResponse
	checkInErr   error
	checkOutResp attendance.SessionResponse
	checkOutErr  error
	openResp     attendance.SessionResponse
	openErr      error
	listResp     []attendance.SessionResponse
	listErr      error

	lastCheckIn attendance.CheckInRequest
}

func (s *stubAttendanceService) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.SessionResponse, error) {
	s.lastCheckIn = req
	return s.checkInResp, s.checkInErr
}

func (s *stubAttendanceService) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.SessionResponse, error) {
	return s.checkOutResp, s.checkOutErr
}

func (s *stubAttendanceService) GetOpenSession(ctx context.Context, userID string) (attendance.SessionResponse, error) {
	return s.openResp, s.openErr
}

func (s *stubAttendanceService) ListOpenSessions(ctx context.Context) ([]attendance.SessionResponse, error) {
	return s.listResp, s.listErr
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAttendanceHandler_CheckIn_Success(t *testing.T) {
	svc := &stubAttendanceService{
		checkInResp: attendance.SessionResponse{
			ID:     "session-1",
			UserID: "user-1",
			Status: "open",
		},
	}
	handler := NewAttendanceHandler(svc)

	payload, _ := json.Marshal(attendance.CheckInRequest{
		UserID:    "user-1",
		OutletID:  "outlet-1",
		Latitude:  -6.2,
		Longitude: 106.8,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/check-in", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.CheckIn(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "user-1", svc.lastCheckIn.UserID)
}

func TestAttendanceHandler_CheckIn_InvalidBody(t *testing.T) {
	handler := NewAttendanceHandler(&stubAttendanceService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/check-in", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	handler.CheckIn(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceHandler_CheckIn_DomainErrorsMapped(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"already checked in", attendance.ErrAlreadyCheckedIn, http.StatusConflict},
		{"outside radius", attendance.ErrOutsideAllowedRadius, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewAttendanceHandler(&stubAttendanceService{checkInErr: tc.err})

			payload, _ := json.Marshal(attendance.CheckInRequest{
				UserID:   "user-1",
				OutletID: "outlet-1",
			})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/check-in", bytes.NewReader(payload))
			rec := httptest.NewRecorder()

			handler.CheckIn(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestAttendanceHandler_CheckOut_Success(t *testing.T) {
	svc := &stubAttendanceService{
		checkOutResp: attendance.SessionResponse{
			ID:     "session-1",
			UserID: "user-1",
			Status: "checked_out",
		},
	}
	handler := NewAttendanceHandler(svc)

	payload, _ := json.Marshal(attendance.CheckOutRequest{
		UserID:    "user-1",
		Latitude:  -6.2,
		Longitude: 106.8,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/check-out", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.CheckOut(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
}

func TestAttendanceHandler_CheckOut_NotCheckedIn(t *testing.T) {
	handler := NewAttendanceHandler(&stubAttendanceService{checkOutErr: attendance.ErrNotCheckedIn})

	payload, _ := json.Marshal(attendance.CheckOutRequest{UserID: "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/check-out", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.CheckOut(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttendanceHandler_ListOpenSessions(t *testing.T) {
	svc := &stubAttendanceService{
		listResp: []attendance.SessionResponse{
			{ID: "session-1", Status: "open"},
			{ID: "session-2", Status: "open"},
		},
	}
	handler := NewAttendanceHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/open", nil)
	rec := httptest.NewRecorder()

	handler.ListOpenSessions(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 2)
}
