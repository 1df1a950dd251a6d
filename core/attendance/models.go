package attendance

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// CheckInMethod is the channel through which attendance was captured.
type CheckInMethod string

const (
	MethodQRCode CheckInMethod = "qr_code"
	MethodVoice  CheckInMethod = "voice"
	MethodManual CheckInMethod = "manual"
)

// Record is one persisted attendance event. Records are immutable; there is
// no update or delete path.
type Record struct {
	ID          string        `json:"id"`
	StudentID   string        `json:"student_id"`
	CourseID    string        `json:"course_id"`
	Method      CheckInMethod `json:"check_in_method"`
	RecordedBy  null.String   `json:"recorded_by"`
	CheckInTime time.Time     `json:"check_in_time"` // store-assigned, UTC
	Notes       null.String   `json:"notes"`
}

// RecordWithStudent is a Record joined with its student's profile data. The
// joined fields are nullable: a missing profile row must not abort a read.
type RecordWithStudent struct {
	Record
	StudentName     null.String
	StudentLoginKey null.String
}

// Summary is the read-path projection served to dashboards.
type Summary struct {
	ID                string        `json:"id"`
	StudentName       string        `json:"student_name"`
	StudentExternalID string        `json:"student_id"`
	CheckInTime       time.Time     `json:"check_in_time"`
	Method            CheckInMethod `json:"method"`
	Notes             null.String   `json:"notes"`
}

// NewCheckIn contains information supplied by an external check-in source
// (QR scan, voice transcript or manual form).
type NewCheckIn struct {
	StudentName string        `json:"student_name" validate:"required"`
	StudentID   string        `json:"student_id" validate:"required"`
	Method      CheckInMethod `json:"method" validate:"required,oneof=qr_code voice manual"`
	Notes       string        `json:"notes"`
}

func (ci *NewCheckIn) Validate() error {
	ci.StudentName = core.CleanString(ci.StudentName)
	ci.StudentID = core.CleanString(ci.StudentID)
	ci.Notes = core.CleanString(ci.Notes)
	return core.Validate.Struct(ci)
}
