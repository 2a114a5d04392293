package service

import (
	"fmt"

	"github.com/dementia-care/backend/internal/domain"
)

// AccessPolicy decides what an authenticated account may do with
// patient records. It holds no state.
type AccessPolicy struct{}

func (AccessPolicy) IsDoctor(caller *domain.Account) bool {
	return caller.IsDoctor() && caller.IsActive
}

func (AccessPolicy) IsPatient(caller *domain.Account) bool {
	return caller.IsPatient() && caller.IsActive
}

// RequireDoctor fails with ErrForbidden unless caller is an active doctor.
func (p AccessPolicy) RequireDoctor(caller *domain.Account) error {
	if !p.IsDoctor(caller) {
		return fmt.Errorf("%w: doctor role required", domain.ErrForbidden)
	}
	return nil
}

// AuthorizeRecord allows only the record's supervising doctor.
func (p AccessPolicy) AuthorizeRecord(caller *domain.Account, record *domain.PatientRecord) error {
	if err := p.RequireDoctor(caller); err != nil {
		return err
	}
	if !record.SupervisedBy(caller.ID) {
		return fmt.Errorf("%w: patient is supervised by another doctor", domain.ErrForbidden)
	}
	return nil
}
