package main

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIClient talks to the backend's /api/v1 surface. Provisioning goes
// through a client without retries: a replayed POST would create a
// second patient.
type APIClient struct {
	httpClient      *resty.Client
	provisionClient *resty.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		httpClient:      newRestClient(baseURL, 2),
		provisionClient: newRestClient(baseURL, 0),
	}
}

func newRestClient(baseURL string, retries int) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL+"/api/v1").
		SetTimeout(30*time.Second).
		SetRetryCount(retries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

// Response types matching backend

type TokenResponse struct {
	Message      string `json:"message"`
	UserType     string `json:"user_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Patient struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	SLMCID    string `json:"slmc_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DoctorID  string `json:"doctor_id"`
}

type ProvisionResponse struct {
	Message  string  `json:"message"`
	Mode     string  `json:"mode"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	Patient  Patient `json:"patient"`
}

type PatientListResponse struct {
	Patients []Patient `json:"patients"`
}

type apiError struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

type DoctorRegistration struct {
	Email     string
	SLMCID    string
	Password  string
	FirstName string
	LastName  string
}

type NewPatient struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Age       int    `json:"age,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Address   string `json:"address,omitempty"`
}

// RegisterDoctor creates a doctor account and returns its session.
func (c *APIClient) RegisterDoctor(reg DoctorRegistration) (*TokenResponse, error) {
	var result TokenResponse
	var failure apiError
	resp, err := c.httpClient.R().
		SetBody(map[string]string{
			"email":             reg.Email,
			"password":          reg.Password,
			"re_enter_password": reg.Password,
			"first_name":        reg.FirstName,
			"last_name":         reg.LastName,
			"user_type":         "DOCTOR",
			"slmc_id":           reg.SLMCID,
		}).
		SetResult(&result).
		SetError(&failure).
		Post("/auth/register")
	if err != nil {
		return nil, fmt.Errorf("register doctor: %w", err)
	}
	if resp.IsError() {
		return nil, statusError("register doctor", resp.StatusCode(), failure)
	}
	return &result, nil
}

func (c *APIClient) DoctorLogin(slmcID, password string) (*TokenResponse, error) {
	return c.login("/auth/doctor-login", map[string]string{"slmc_id": slmcID, "password": password})
}

func (c *APIClient) PatientLogin(username, password string) (*TokenResponse, error) {
	return c.login("/auth/patient-login", map[string]string{"username": username, "password": password})
}

func (c *APIClient) login(path string, body map[string]string) (*TokenResponse, error) {
	var result TokenResponse
	var failure apiError
	resp, err := c.httpClient.R().
		SetBody(body).
		SetResult(&result).
		SetError(&failure).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.IsError() {
		return nil, statusError("login", resp.StatusCode(), failure)
	}
	return &result, nil
}

// ProvisionPatient creates a patient under the doctor owning token.
// selfService selects the self-service entry point.
func (c *APIClient) ProvisionPatient(token string, patient NewPatient, selfService bool) (*ProvisionResponse, error) {
	path := "/patients"
	if selfService {
		path = "/patients/self-service"
	}

	var result ProvisionResponse
	var failure apiError
	resp, err := c.provisionClient.R().
		SetAuthToken(token).
		SetBody(patient).
		SetResult(&result).
		SetError(&failure).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("provision patient: %w", err)
	}
	if resp.IsError() {
		return nil, statusError("provision patient", resp.StatusCode(), failure)
	}
	return &result, nil
}

func (c *APIClient) ListPatients(token string) ([]Patient, error) {
	var result PatientListResponse
	var failure apiError
	resp, err := c.httpClient.R().
		SetAuthToken(token).
		SetResult(&result).
		SetError(&failure).
		Get("/patients")
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	if resp.IsError() {
		return nil, statusError("list patients", resp.StatusCode(), failure)
	}
	return result.Patients, nil
}

func statusError(op string, status int, failure apiError) error {
	if failure.Field != "" {
		return fmt.Errorf("%s: status %d: %s (%s)", op, status, failure.Error, failure.Field)
	}
	return fmt.Errorf("%s: status %d: %s", op, status, failure.Error)
}
