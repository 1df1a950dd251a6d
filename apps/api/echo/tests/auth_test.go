package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/apps/api/echo/handlers"
	"github.com/trezcool/darasa/core/profile"
	testutil "github.com/trezcool/darasa/tests"
)

func Test_authApi_login(t *testing.T) {
	app := setup(t)

	testutil.CreateIdentity(t, idp, "teacher@test.cd", "Teacher", profile.RoleTeacher, "s3cr3t")

	login := func(email, pwd string) []byte {
		return marchallObj(t, handlers.LoginRequest{Email: email, Password: pwd})
	}
	errAuthFailed := marchallObj(t, httpErr{Error: "authentication failed"})

	tests := []httpTest{
		{name: "empty body", body: []byte("{}"), wantCode: http.StatusBadRequest},
		{name: "invalid email", body: login("lol", "s3cr3t"), wantCode: http.StatusBadRequest},
		{name: "unknown login key", body: login("lol@test.cd", "s3cr3t"), wantCode: http.StatusBadRequest, wantData: errAuthFailed},
		{name: "wrong password", body: login("teacher@test.cd", "lol"), wantCode: http.StatusBadRequest, wantData: errAuthFailed},
		{name: "ok", body: login("teacher@test.cd", "s3cr3t"), wantCode: http.StatusOK},
		{name: "case-insensitive login key", body: login("Teacher@Test.CD", "s3cr3t"), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var resp handlers.LoginResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("json.Unmarshal() failed: %v", err)
			}
			if resp.Token == "" {
				t.Error("login did not return a token")
			}

			// the token authenticates follow-up requests
			creq, crec := newAuthRequest(http.MethodPost, "/v1/courses/default", resp.Token)
			app.ServeHTTP(crec, creq)
			if crec.Code != http.StatusOK {
				t.Errorf("authenticated request failed! code = %v; body %s", crec.Code, crec.Body.String())
			}
		})
	}
}
