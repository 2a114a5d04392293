package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountBuilder creates test accounts with a builder pattern
type AccountBuilder struct {
	role      domain.Role
	email     string
	slmcID    string
	username  string
	firstName string
	lastName  string
	password  string
	active    bool
}

// NewDoctorBuilder creates an AccountBuilder for a DOCTOR with default values
func NewDoctorBuilder() *AccountBuilder {
	suffix := uuid.New().String()[:8]
	return &AccountBuilder{
		role:      domain.RoleDoctor,
		email:     fmt.Sprintf("doctor_%s@clinic.test", suffix),
		slmcID:    fmt.Sprintf("SLMC-%s", suffix),
		username:  fmt.Sprintf("doc_%s", suffix[:6]),
		firstName: "Test",
		lastName:  "Doctor",
		password:  "testpassword123",
		active:    true,
	}
}

// NewPatientBuilder creates an AccountBuilder for a PATIENT with default values
func NewPatientBuilder() *AccountBuilder {
	handle := fmt.Sprintf("pat_%s", uuid.New().String()[:6])
	return &AccountBuilder{
		role:      domain.RolePatient,
		email:     handle + "@example.com",
		slmcID:    handle,
		username:  handle,
		firstName: "Test",
		lastName:  "Patient",
		password:  "Pat12345",
		active:    true,
	}
}

// WithEmail sets the email
func (b *AccountBuilder) WithEmail(email string) *AccountBuilder {
	b.email = email
	return b
}

// WithSLMCID sets the clinical-license identifier
func (b *AccountBuilder) WithSLMCID(slmcID string) *AccountBuilder {
	b.slmcID = slmcID
	return b
}

// WithUsername sets the login handle
func (b *AccountBuilder) WithUsername(username string) *AccountBuilder {
	b.username = username
	return b
}

// WithPassword sets the password
func (b *AccountBuilder) WithPassword(password string) *AccountBuilder {
	b.password = password
	return b
}

// Inactive marks the account as deactivated
func (b *AccountBuilder) Inactive() *AccountBuilder {
	b.active = false
	return b
}

// Build creates the account in the database and returns it with the raw password
func (b *AccountBuilder) Build(t *testing.T, db *gorm.DB) (*domain.Account, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	account := &domain.Account{
		ID:           uuid.New(),
		Email:        b.email,
		SLMCID:       b.slmcID,
		Username:     b.username,
		FirstName:    b.firstName,
		LastName:     b.lastName,
		PasswordHash: string(hashedPassword),
		Role:         b.role,
		IsActive:     b.active,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	return account, b.password
}

// BuildPatientRecord creates a patient account supervised by doctor
func BuildPatientRecord(t *testing.T, db *gorm.DB, doctor *domain.Account) (*domain.PatientRecord, string) {
	t.Helper()

	patient, password := NewPatientBuilder().Build(t, db)
	age := 72
	record := &domain.PatientRecord{
		ID:               uuid.New(),
		PatientID:        patient.ID,
		DoctorID:         doctor.ID,
		Age:              &age,
		Gender:           "female",
		Address:          "12 Lake Road, Kandy",
		EmergencyContact: "0771234567",
		MedicalHistory:   "Early-onset Alzheimer's",
	}
	if err := db.Omit("Patient", "Doctor").Create(record).Error; err != nil {
		t.Fatalf("failed to create patient record: %v", err)
	}
	record.Patient = patient
	record.Doctor = doctor

	return record, password
}

// TokenResponse matches the API login/registration responses
type TokenResponse struct {
	Message      string `json:"message"`
	UserType     string `json:"user_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// PatientJSON matches a serialized patient record
type PatientJSON struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	SLMCID           string `json:"slmc_id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Age              *int   `json:"age"`
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	MedicalHistory   string `json:"medical_history"`
	DoctorID         string `json:"doctor_id"`
}

// ProvisionResponse matches the patient creation response
type ProvisionResponse struct {
	Message  string      `json:"message"`
	Mode     string      `json:"mode"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	Patient  PatientJSON `json:"patient"`
}

// ErrorResponse matches the API error body
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

// RegisterDoctor registers a doctor via the API and returns the token response
func RegisterDoctor(t *testing.T, ts *TestServer, email, slmcID, password string) TokenResponse {
	t.Helper()

	reqBody := map[string]string{
		"email":             email,
		"password":          password,
		"re_enter_password": password,
		"first_name":        "Test",
		"last_name":         "Doctor",
		"user_type":         string(domain.RoleDoctor),
		"slmc_id":           slmcID,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register doctor: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var tokens TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return tokens
}

// BuildAndAuthenticate registers a fresh doctor via the API and returns the access token
func BuildAndAuthenticate(t *testing.T, ts *TestServer) string {
	t.Helper()

	suffix := uuid.New().String()[:8]
	tokens := RegisterDoctor(t, ts, fmt.Sprintf("doc_%s@clinic.test", suffix), "SLMC-"+suffix, "Pw12345")
	return tokens.AccessToken
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
