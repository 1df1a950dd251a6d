package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/profile"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	testutil "github.com/trezcool/darasa/tests"
)

func Test_courseApi_ensureDefault(t *testing.T) {
	app := setup(t)

	teacher := testutil.CreateIdentity(t, idp, "teacher@test.cd", "Teacher", profile.RoleTeacher, "")
	teacherProf, err := profileSvc.GetByIdentityID(context.Background(), teacher.ID)
	if err != nil {
		t.Fatalf("GetByIdentityID() failed: %v", err)
	}

	// an identity whose profile never materialized
	ghost := testutil.CreateIdentity(t, inmemdb.NewManualIdentityProvider(db), "ghost@test.cd", "Ghost", profile.RoleTeacher, "")

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "actor without profile", token: getToken(t, ghost), wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "an authenticated actor is required"}),
		},
		{name: "bootstraps on first call", token: getToken(t, teacher), wantCode: http.StatusOK},
		{name: "idempotent", token: getToken(t, teacher), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/courses/default", tt.token)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}

			var crs course.Course
			if err := json.Unmarshal(rec.Body.Bytes(), &crs); err != nil {
				t.Fatalf("json.Unmarshal() failed: %v", err)
			}
			if crs.ID != conf.Attendance.DefaultCourseID {
				t.Errorf("ID = %v, want %v", crs.ID, conf.Attendance.DefaultCourseID)
			}
			if crs.OwnerID != teacherProf.ID {
				t.Errorf("OwnerID = %v, want %v", crs.OwnerID, teacherProf.ID)
			}
		})
	}
}
