package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dementia-care/backend/internal/credentials"
	"github.com/dementia-care/backend/internal/domain"
	"github.com/dementia-care/backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ProvisionMode names the identifier-synthesis strategy used to create a
// patient account. Callers may depend on the formats, so the two are
// never merged.
type ProvisionMode string

const (
	// ProvisionModeSelfService uses the login handle as slmc_id and
	// requires a real email.
	ProvisionModeSelfService ProvisionMode = "self_service"
	// ProvisionModeDirect synthesizes slmc_id as PAT-XXXXXXXX and falls
	// back to <handle>@example.com for email.
	ProvisionModeDirect ProvisionMode = "direct"
)

const placeholderEmailDomain = "example.com"

type ProvisioningService struct {
	accounts repository.AccountRepository
	tx       repository.Transactor
	gen      credentials.Generator
	policy   AccessPolicy
	log      *zap.Logger
}

func NewProvisioningService(accounts repository.AccountRepository, tx repository.Transactor, gen credentials.Generator, log *zap.Logger) *ProvisioningService {
	return &ProvisioningService{
		accounts: accounts,
		tx:       tx,
		gen:      gen,
		log:      log.Named("provisioning"),
	}
}

type RegisterDoctorInput struct {
	Email           string
	Password        string
	ReEnterPassword string
	FirstName       string
	LastName        string
	UserType        domain.Role
	SLMCID          string
}

type ProvisionPatientInput struct {
	FirstName        string
	LastName         string
	Email            string
	Age              *int
	Gender           string
	Address          string
	EmergencyContact string
	MedicalHistory   string
}

// ProvisionResult carries the generated credentials next to the record.
// Username and Password are the only copy of the plaintext secret.
type ProvisionResult struct {
	Mode     ProvisionMode
	Record   *domain.PatientRecord
	Username string
	Password string
}

// RegisterDoctor creates a DOCTOR account from self-supplied identifiers.
// It never creates patients, whatever user_type the caller sends.
func (s *ProvisioningService) RegisterDoctor(ctx context.Context, input RegisterDoctorInput) (*domain.Account, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, domain.NewValidationError("password", "This field is required.")
	}
	if input.SLMCID == "" {
		return nil, domain.NewValidationError("slmc_id", "This field is required.")
	}
	if input.Password != input.ReEnterPassword {
		return nil, domain.NewValidationError("", "password mismatch")
	}
	if !input.UserType.IsValid() {
		return nil, domain.NewValidationError("user_type", fmt.Sprintf("%q is not a valid choice.", string(input.UserType)))
	}
	if input.UserType != domain.RoleDoctor {
		return nil, domain.NewValidationError("user_type", "role not permitted via this entry point")
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, domain.NewValidationError("email", "account with this email already exists.")
	}
	if _, err := s.accounts.GetBySLMCID(ctx, input.SLMCID); err == nil {
		return nil, domain.NewValidationError("slmc_id", "account with this slmc id already exists.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account := &domain.Account{
		ID:           uuid.New(),
		Email:        email,
		SLMCID:       input.SLMCID,
		Username:     s.gen.LoginHandle(credentials.PrefixDoctor),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleDoctor,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, clientConflict(err, "email", "slmc_id")
	}

	s.log.Info("doctor registered", zap.String("account_id", account.ID.String()), zap.String("username", account.Username))
	return account, nil
}

// ProvisionPatientSelfService creates a patient whose slmc_id is its own
// login handle. Email, first and last name are required.
func (s *ProvisioningService) ProvisionPatientSelfService(ctx context.Context, doctor *domain.Account, input ProvisionPatientInput) (*ProvisionResult, error) {
	if err := s.policy.RequireDoctor(doctor); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, domain.NewValidationError("first_name", "This field is required.")
	}
	if strings.TrimSpace(input.LastName) == "" {
		return nil, domain.NewValidationError("last_name", "This field is required.")
	}

	handle := s.gen.LoginHandle(credentials.PrefixPatient)
	identity := patientIdentity{
		username: handle,
		slmcID:   handle,
		email:    email,
	}
	return s.provisionPatient(ctx, ProvisionModeSelfService, doctor, identity, input)
}

// ProvisionPatientDirect is the record-collection create path. slmc_id is
// PAT-XXXXXXXX and a missing email becomes <handle>@example.com.
func (s *ProvisioningService) ProvisionPatientDirect(ctx context.Context, doctor *domain.Account, input ProvisionPatientInput) (*ProvisionResult, error) {
	if err := s.policy.RequireDoctor(doctor); err != nil {
		return nil, err
	}

	handle := s.gen.LoginHandle(credentials.PrefixPatient)
	email := handle + "@" + placeholderEmailDomain
	if strings.TrimSpace(input.Email) != "" {
		var err error
		if email, err = normalizeEmail(input.Email); err != nil {
			return nil, err
		}
	}
	if input.FirstName == "" {
		input.FirstName = "Patient"
	}

	identity := patientIdentity{
		username: handle,
		slmcID:   s.gen.PatientID(),
		email:    email,
	}
	return s.provisionPatient(ctx, ProvisionModeDirect, doctor, identity, input)
}

type patientIdentity struct {
	username string
	slmcID   string
	email    string
}

// provisionPatient writes the Account and PatientRecord in one
// transaction; either both rows exist afterwards or neither does.
func (s *ProvisioningService) provisionPatient(ctx context.Context, mode ProvisionMode, doctor *domain.Account, id patientIdentity, input ProvisionPatientInput) (*ProvisionResult, error) {
	password := s.gen.Password()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account := &domain.Account{
		ID:           uuid.New(),
		Email:        id.email,
		SLMCID:       id.slmcID,
		Username:     id.username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hashedPassword),
		Role:         domain.RolePatient,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	record := &domain.PatientRecord{
		ID:               uuid.New(),
		PatientID:        account.ID,
		DoctorID:         doctor.ID,
		Age:              input.Age,
		Gender:           input.Gender,
		Address:          input.Address,
		EmergencyContact: input.EmergencyContact,
		MedicalHistory:   input.MedicalHistory,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = s.tx.WithinTransaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Account.Create(ctx, account); err != nil {
			return fmt.Errorf("create patient account: %w", err)
		}
		if err := tx.Patient.Create(ctx, record); err != nil {
			return fmt.Errorf("create patient record: %w", err)
		}
		return nil
	})
	if err != nil {
		if mode == ProvisionModeSelfService || strings.TrimSpace(input.Email) != "" {
			err = clientConflict(err, "email")
		}
		s.log.Warn("patient provisioning failed",
			zap.String("mode", string(mode)),
			zap.String("doctor_id", doctor.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	record.Patient = account
	record.Doctor = doctor

	s.log.Info("patient provisioned",
		zap.String("mode", string(mode)),
		zap.String("doctor_id", doctor.ID.String()),
		zap.String("username", account.Username),
	)

	return &ProvisionResult{
		Mode:     mode,
		Record:   record,
		Username: id.username,
		Password: password,
	}, nil
}

// clientConflict turns a conflict on a caller-supplied field into a
// validation error. Conflicts on generated fields stay ConflictError so
// the caller can retry with fresh values.
func clientConflict(err error, clientFields ...string) error {
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		return err
	}
	for _, f := range clientFields {
		if conflict.Field == f {
			return domain.NewValidationError(f, fmt.Sprintf("account with this %s already exists.", strings.ReplaceAll(f, "_", " ")))
		}
	}
	return err
}

// normalizeEmail validates syntax and lowercases the domain part.
func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", domain.NewValidationError("email", "This field is required.")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.NewValidationError("email", "Enter a valid email address.")
	}
	at := strings.LastIndex(email, "@")
	return email[:at] + "@" + strings.ToLower(email[at+1:]), nil
}
