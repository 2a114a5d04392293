package handlers

import (
	"net/http"

	"github.com/dementia-care/backend/internal/api/middleware"
	"github.com/dementia-care/backend/internal/domain"
	"github.com/dementia-care/backend/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	provisioning *service.ProvisioningService
	session      *service.SessionService
	log          *zap.Logger
}

func NewAuthHandler(provisioning *service.ProvisioningService, session *service.SessionService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		provisioning: provisioning,
		session:      session,
		log:          log.Named("handlers.auth"),
	}
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ReEnterPassword string `json:"re_enter_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	UserType        string `json:"user_type"`
	SLMCID          string `json:"slmc_id"`
}

type DoctorLoginRequest struct {
	SLMCID   string `json:"slmc_id"`
	Password string `json:"password"`
}

type PatientLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	Message      string `json:"message"`
	UserType     string `json:"user_type,omitempty"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Register creates a doctor account and returns a usable session.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	account, err := withRetry(func() (*domain.Account, error) {
		return h.provisioning.RegisterDoctor(r.Context(), service.RegisterDoctorInput{
			Email:           req.Email,
			Password:        req.Password,
			ReEnterPassword: req.ReEnterPassword,
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			UserType:        domain.Role(req.UserType),
			SLMCID:          req.SLMCID,
		})
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	result, err := h.session.IssueTokens(r.Context(), account)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, TokenResponse{
		Message:      "User registered successfully",
		UserType:     string(account.Role),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (h *AuthHandler) DoctorLogin(w http.ResponseWriter, r *http.Request) {
	var req DoctorLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	result, err := h.session.AuthenticateDoctor(r.Context(), req.SLMCID, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		Message:      "Doctor login successful",
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (h *AuthHandler) PatientLogin(w http.ResponseWriter, r *http.Request) {
	var req PatientLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	result, err := h.session.AuthenticatePatient(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		Message:      "Patient login successful",
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	if err := h.session.Logout(r.Context(), req.RefreshToken); err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logout successful"})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	access, err := h.session.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		Message:     "Token refreshed",
		AccessToken: access,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := middleware.GetAccount(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, account)
}
