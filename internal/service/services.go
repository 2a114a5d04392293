package service

import (
	"github.com/dementia-care/backend/internal/config"
	"github.com/dementia-care/backend/internal/credentials"
	"github.com/dementia-care/backend/internal/repository"
	"go.uber.org/zap"
)

type Services struct {
	Tokens       *TokenService
	Session      *SessionService
	Provisioning *ProvisioningService
	Patients     *PatientService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log *zap.Logger) *Services {
	tokens := NewTokenService(repos.Blacklist, cfg)
	return &Services{
		Tokens:       tokens,
		Session:      NewSessionService(repos.Account, tokens, log),
		Provisioning: NewProvisioningService(repos.Account, repos.Tx, credentials.NewRandom(), log),
		Patients:     NewPatientService(repos.Patient, log),
	}
}
