package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dementia-care/backend/internal/api/middleware"
	"github.com/dementia-care/backend/internal/domain"
	"github.com/dementia-care/backend/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PatientHandler struct {
	provisioning *service.ProvisioningService
	patients     *service.PatientService
	log          *zap.Logger
}

func NewPatientHandler(provisioning *service.ProvisioningService, patients *service.PatientService, log *zap.Logger) *PatientHandler {
	return &PatientHandler{
		provisioning: provisioning,
		patients:     patients,
		log:          log.Named("handlers.patients"),
	}
}

type CreatePatientRequest struct {
	FirstName        string      `json:"first_name"`
	LastName         string      `json:"last_name"`
	Email            string      `json:"email"`
	Age              optionalInt `json:"age"`
	Gender           string      `json:"gender"`
	Address          string      `json:"address"`
	EmergencyContact string      `json:"emergency_contact"`
	MedicalHistory   string      `json:"medical_history"`
}

type UpdatePatientRequest struct {
	Age              optionalInt `json:"age"`
	Gender           *string     `json:"gender"`
	Address          *string     `json:"address"`
	EmergencyContact *string     `json:"emergency_contact"`
	MedicalHistory   *string     `json:"medical_history"`
}

type PatientResponse struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	SLMCID           string    `json:"slmc_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Age              *int      `json:"age"`
	Gender           string    `json:"gender"`
	Address          string    `json:"address"`
	EmergencyContact string    `json:"emergency_contact"`
	MedicalHistory   string    `json:"medical_history"`
	DoctorID         string    `json:"doctor_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProvisionResponse is the only response that ever carries a generated
// password.
type ProvisionResponse struct {
	Message  string          `json:"message"`
	Mode     string          `json:"mode"`
	Username string          `json:"username"`
	Password string          `json:"password"`
	Patient  PatientResponse `json:"patient"`
}

type PatientDetailResponse struct {
	Username    string          `json:"username"`
	PatientData PatientResponse `json:"patient_data"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
}

func toPatientResponse(record *domain.PatientRecord) PatientResponse {
	resp := PatientResponse{
		ID:               record.ID.String(),
		Age:              record.Age,
		Gender:           record.Gender,
		Address:          record.Address,
		EmergencyContact: record.EmergencyContact,
		MedicalHistory:   record.MedicalHistory,
		DoctorID:         record.DoctorID.String(),
		CreatedAt:        record.CreatedAt,
	}
	if p := record.Patient; p != nil {
		resp.Username = p.Username
		resp.Email = p.Email
		resp.SLMCID = p.SLMCID
		resp.FirstName = p.FirstName
		resp.LastName = p.LastName
	}
	return resp
}

// Create is the record-collection create path (direct provisioning).
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.provision(w, r, h.provisioning.ProvisionPatientDirect)
}

// CreateSelfService provisions with the handle doubling as slmc_id.
func (h *PatientHandler) CreateSelfService(w http.ResponseWriter, r *http.Request) {
	h.provision(w, r, h.provisioning.ProvisionPatientSelfService)
}

type provisionFunc func(ctx context.Context, doctor *domain.Account, input service.ProvisionPatientInput) (*service.ProvisionResult, error)

func (h *PatientHandler) provision(w http.ResponseWriter, r *http.Request, provision provisionFunc) {
	doctor, ok := middleware.GetAccount(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreatePatientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	input := service.ProvisionPatientInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Age:              req.Age.Value,
		Gender:           req.Gender,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		MedicalHistory:   req.MedicalHistory,
	}

	result, err := withRetry(func() (*service.ProvisionResult, error) {
		return provision(r.Context(), doctor, input)
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, ProvisionResponse{
		Message:  "Patient created successfully",
		Mode:     string(result.Mode),
		Username: result.Username,
		Password: result.Password,
		Patient:  toPatientResponse(result.Record),
	})
}

func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	doctor, ok := middleware.GetAccount(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := h.patients.List(r.Context(), doctor)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	resp := PatientListResponse{Patients: make([]PatientResponse, 0, len(records))}
	for _, record := range records {
		resp.Patients = append(resp.Patients, toPatientResponse(record))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	doctor, ok := middleware.GetAccount(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	username := chi.URLParam(r, "username")
	record, err := h.patients.GetByUsername(r.Context(), doctor, username)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, PatientDetailResponse{
		Username:    record.Patient.Username,
		PatientData: toPatientResponse(record),
	})
}

func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	doctor, ok := middleware.GetAccount(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdatePatientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	input := service.UpdatePatientInput{
		Gender:           req.Gender,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		MedicalHistory:   req.MedicalHistory,
	}
	if req.Age.Set {
		input.Age = req.Age.Value
		input.ClearAge = req.Age.Value == nil
	}

	username := chi.URLParam(r, "username")
	record, err := h.patients.Update(r.Context(), doctor, username, input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, PatientDetailResponse{
		Username:    record.Patient.Username,
		PatientData: toPatientResponse(record),
	})
}
