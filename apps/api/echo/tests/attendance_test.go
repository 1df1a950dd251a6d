package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/profile"
	testutil "github.com/trezcool/darasa/tests"
)

func Test_attendanceApi_checkIn(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateIdentity(t, idp, "teacher@test.cd", "Teacher", profile.RoleTeacher, "")
	teacherProf, err := profileSvc.GetByIdentityID(context.Background(), teacher.ID)
	if err != nil {
		t.Fatalf("GetByIdentityID() failed: %v", err)
	}

	checkIn := func(name, id, method, notes string) []byte {
		return marchallObj(t, attendance.NewCheckIn{
			StudentName: name,
			StudentID:   id,
			Method:      attendance.CheckInMethod(method),
			Notes:       notes,
		})
	}

	tests := []httpTest{
		{name: "empty body", body: []byte("{}"), wantCode: http.StatusBadRequest},
		{name: "missing student ID", body: checkIn("Emma Brown", "", "voice", ""), wantCode: http.StatusBadRequest},
		{name: "missing name", body: checkIn("", "1234", "voice", ""), wantCode: http.StatusBadRequest},
		{name: "unknown method", body: checkIn("Emma Brown", "1234", "telepathy", ""), wantCode: http.StatusBadRequest},
		{name: "anonymous check-in", body: checkIn("Emma Brown", "1234", "voice", ""), wantCode: http.StatusCreated},
		{name: "returning student", body: checkIn("Emma Brown", "1234", "qr_code", ""), wantCode: http.StatusCreated},
		{name: "attributed check-in", body: checkIn("John Smith", "5678", "manual", "late arrival"), token: getToken(t, teacher), wantCode: http.StatusCreated},
	}

	var firstStudentID string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/check-in", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusCreated {
				return
			}

			var record attendance.Record
			if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
				t.Fatalf("json.Unmarshal() failed: %v", err)
			}
			if record.StudentID == "" {
				t.Error("check-in did not resolve a student profile")
			}
			if record.CourseID != conf.Attendance.DefaultCourseID {
				t.Errorf("CourseID = %v, want %v", record.CourseID, conf.Attendance.DefaultCourseID)
			}
			if record.CheckInTime.IsZero() {
				t.Error("CheckInTime was not assigned")
			}

			switch tt.name {
			case "anonymous check-in":
				firstStudentID = record.StudentID
				if record.RecordedBy.Valid {
					t.Errorf("RecordedBy = %v, want unattributed", record.RecordedBy)
				}
			case "returning student":
				if record.StudentID != firstStudentID {
					t.Errorf("StudentID = %v, want the existing profile %v", record.StudentID, firstStudentID)
				}
			case "attributed check-in":
				if !record.RecordedBy.Valid || record.RecordedBy.String != teacherProf.ID {
					t.Errorf("RecordedBy = %v, want %v", record.RecordedBy, teacherProf.ID)
				}
			}
		})
	}
}

func Test_attendanceApi_listRecent(t *testing.T) {
	app := setup(t)

	for i := 0; i < 7; i++ {
		req, rec := newRequest(http.MethodPost, "/v1/attendance/check-in", marchallObj(t, attendance.NewCheckIn{
			StudentName: fmt.Sprintf("Student %d", i),
			StudentID:   fmt.Sprintf("%04d", i),
			Method:      attendance.MethodQRCode,
		}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("check-in failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	}
	if len(notifier.Successes) != 7 {
		t.Fatalf("notifier.Successes = %d, want 7", len(notifier.Successes))
	}

	recent := func(limit int) []byte {
		summaries, err := attendanceSvc.ListRecent(context.Background(), limit)
		if err != nil {
			t.Fatalf("ListRecent() failed: %v", err)
		}
		return marchallObj(t, summaries)
	}

	tests := []httpTest{
		{name: "default limit", path: "/v1/attendance/recent", wantCode: http.StatusOK, wantData: recent(conf.Attendance.DefaultRecentLimit)},
		{name: "explicit limit", path: "/v1/attendance/recent?limit=3", wantCode: http.StatusOK, wantData: recent(3)},
		{name: "limit above count", path: "/v1/attendance/recent?limit=100", wantCode: http.StatusOK, wantData: recent(100)},
		{name: "invalid limit", path: "/v1/attendance/recent?limit=lol", wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid limit"})},
		{name: "negative limit", path: "/v1/attendance/recent?limit=-1", wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid limit"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
