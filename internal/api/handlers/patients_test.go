package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dementia-care/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func provision(t *testing.T, ts *testutil.TestServer, token, path string, body map[string]interface{}) testutil.ProvisionResponse {
	t.Helper()
	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL(path), body, token)
	resp := testutil.Do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created testutil.ProvisionResponse
	testutil.AssertJSONResponse(t, resp, &created)
	return created
}

func TestPatientHandler_CreateDirect(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.BuildAndAuthenticate(t, ts)

	created := provision(t, ts, token, "/patients", map[string]interface{}{
		"first_name":        "Nimal",
		"last_name":         "Silva",
		"age":               "81",
		"gender":            "male",
		"emergency_contact": "0771234567",
	})

	assert.Equal(t, "direct", created.Mode)
	assert.Regexp(t, `^pat_[0-9a-f]{6}$`, created.Username)
	assert.Regexp(t, `^[A-Za-z0-9]{8}$`, created.Password)
	assert.Regexp(t, `^PAT-[0-9A-F]{8}$`, created.Patient.SLMCID)
	assert.Equal(t, created.Username+"@example.com", created.Patient.Email)
	assert.Equal(t, created.Username, created.Patient.Username)
	require.NotNil(t, created.Patient.Age)
	assert.Equal(t, 81, *created.Patient.Age)

	t.Run("bad age", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/patients"), map[string]interface{}{
			"age": "eighty",
		}, token)
		resp := testutil.Do(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "valid integer")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/patients"), map[string]interface{}{}, "")
		resp := testutil.Do(t, req)
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})
}

func TestPatientHandler_CreateSelfService(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.BuildAndAuthenticate(t, ts)

	created := provision(t, ts, token, "/patients/self-service", map[string]interface{}{
		"first_name": "Kamala",
		"last_name":  "Fernando",
		"email":      "kamala@example.org",
	})
	assert.Equal(t, "self_service", created.Mode)
	assert.Equal(t, created.Username, created.Patient.SLMCID)
	assert.Equal(t, "kamala@example.org", created.Patient.Email)

	tests := []struct {
		name          string
		body          map[string]interface{}
		expectedError string
	}{
		{
			name:          "missing email",
			body:          map[string]interface{}{"first_name": "A", "last_name": "B"},
			expectedError: "required",
		},
		{
			name:          "email taken",
			body:          map[string]interface{}{"first_name": "A", "last_name": "B", "email": "kamala@example.org"},
			expectedError: "email already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/patients/self-service"), tt.body, token)
			resp := testutil.Do(t, req)
			testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, tt.expectedError)
		})
	}
}

func TestPatientHandler_DoctorIsolation(t *testing.T) {
	ts := testutil.NewTestServer(t)
	d1 := testutil.BuildAndAuthenticate(t, ts)
	d2 := testutil.BuildAndAuthenticate(t, ts)

	mine := provision(t, ts, d1, "/patients", map[string]interface{}{"first_name": "Mine"})
	provision(t, ts, d2, "/patients", map[string]interface{}{"first_name": "Theirs"})

	t.Run("list shows only own patients", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/patients"), nil, d1)
		resp := testutil.Do(t, req)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var list struct {
			Patients []testutil.PatientJSON `json:"patients"`
		}
		testutil.AssertJSONResponse(t, resp, &list)
		require.Len(t, list.Patients, 1)
		assert.Equal(t, mine.Username, list.Patients[0].Username)
	})

	tests := []struct {
		name          string
		token         string
		username      string
		expectedCode  int
		expectedError string
	}{
		{name: "supervising doctor", token: d1, username: mine.Username, expectedCode: http.StatusOK},
		{name: "other doctor", token: d2, username: mine.Username, expectedCode: http.StatusForbidden, expectedError: "Unauthorized access."},
		{name: "unknown handle", token: d2, username: "pat_nobody", expectedCode: http.StatusNotFound, expectedError: "Patient not found."},
	}

	for _, tt := range tests {
		t.Run("get "+tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/patients/"+tt.username), nil, tt.token)
			resp := testutil.Do(t, req)

			if tt.expectedError != "" {
				testutil.AssertErrorResponse(t, resp, tt.expectedCode, tt.expectedError)
				return
			}
			testutil.AssertStatusCode(t, resp, tt.expectedCode)
			var detail struct {
				Username    string               `json:"username"`
				PatientData testutil.PatientJSON `json:"patient_data"`
			}
			testutil.AssertJSONResponse(t, resp, &detail)
			assert.Equal(t, mine.Username, detail.Username)
			assert.Equal(t, "Mine", detail.PatientData.FirstName)
		})
	}
}

func TestPatientHandler_Update(t *testing.T) {
	ts := testutil.NewTestServer(t)
	d1 := testutil.BuildAndAuthenticate(t, ts)
	d2 := testutil.BuildAndAuthenticate(t, ts)

	created := provision(t, ts, d1, "/patients", map[string]interface{}{
		"first_name": "Sunil",
		"gender":     "male",
		"address":    "4 Temple Road",
	})
	url := ts.APIURL("/patients/" + created.Username)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPatch, url, map[string]interface{}{
		"age":             77,
		"medical_history": "Vascular dementia",
	}, d1)
	resp := testutil.Do(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var detail struct {
		PatientData testutil.PatientJSON `json:"patient_data"`
	}
	testutil.AssertJSONResponse(t, resp, &detail)
	require.NotNil(t, detail.PatientData.Age)
	assert.Equal(t, 77, *detail.PatientData.Age)
	assert.Equal(t, "Vascular dementia", detail.PatientData.MedicalHistory)
	assert.Equal(t, "4 Temple Road", detail.PatientData.Address)
	assert.Equal(t, created.Username, detail.PatientData.Username)

	t.Run("other doctor is forbidden", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPatch, url, map[string]interface{}{"gender": "female"}, d2)
		resp := testutil.Do(t, req)
		testutil.AssertStatusCode(t, resp, http.StatusForbidden)
	})

	patch := func(t *testing.T, body map[string]interface{}) testutil.PatientJSON {
		t.Helper()
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPatch, url, body, d1)
		resp := testutil.Do(t, req)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var detail struct {
			PatientData testutil.PatientJSON `json:"patient_data"`
		}
		testutil.AssertJSONResponse(t, resp, &detail)
		return detail.PatientData
	}

	t.Run("absent age leaves value", func(t *testing.T) {
		got := patch(t, map[string]interface{}{"gender": "male"})
		require.NotNil(t, got.Age)
		assert.Equal(t, 77, *got.Age)
	})

	t.Run("null age clears value", func(t *testing.T) {
		got := patch(t, map[string]interface{}{"age": nil})
		assert.Nil(t, got.Age)
	})

	t.Run("empty string age clears value", func(t *testing.T) {
		patch(t, map[string]interface{}{"age": 78})
		got := patch(t, map[string]interface{}{"age": ""})
		assert.Nil(t, got.Age)
	})
}
