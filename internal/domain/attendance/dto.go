package attendance

import (
	"github.com/kerjapoint/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	UserID   string `json:"user_id"`
	OutletID string `json:"outlet_id"`

	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`

	SelfiePath      *string `json:"selfie_path,omitempty"`
	SelfieThumbPath *string `json:"selfie_thumbnail_path,omitempty"`
	SelfieFileSize  *int64  `json:"selfie_file_size,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.OutletID) {
		errs = append(errs, validator.ValidationError{
			Field:   "outlet_id",
			Message: "outlet_id is required",
		})
	}

	if r.Latitude < -90 || r.Latitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude < -180 || r.Longitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	UserID string `json:"user_id"`

	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`

	SelfiePath      *string `json:"selfie_path,omitempty"`
	SelfieThumbPath *string `json:"selfie_thumbnail_path,omitempty"`
	SelfieFileSize  *int64  `json:"selfie_file_size,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if r.Latitude < -90 || r.Latitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude < -180 || r.Longitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SessionResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	UserName   *string `json:"user_name,omitempty"`
	OutletID   string  `json:"outlet_id"`
	OutletName *string `json:"outlet_name,omitempty"`

	CheckInTime  string  `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Status       string  `json:"status"`

	LateMinutes          *int    `json:"late_minutes"`
	EarlyCheckoutMinutes *int    `json:"early_checkout_minutes"`
	OvertimeMinutes      *int    `json:"overtime_minutes"`
	WorkDurationMinutes  *int    `json:"work_duration_minutes"`
	IsOvertime           bool    `json:"is_overtime"`
	AttendanceStatus     *string `json:"attendance_status"`

	Note *string `json:"note,omitempty"`
}
