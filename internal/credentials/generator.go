// Package credentials produces identifiers and secrets for accounts the
// system creates on a user's behalf.
package credentials

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	PrefixDoctor  = "doc"
	PrefixPatient = "pat"

	handleLength    = 6
	patientIDLength = 8
	passwordLength  = 8
	passwordChars   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Generator is what provisioning needs from a credential source. None of
// the values are guaranteed unique; callers rely on the store's unique
// indexes and retry.
type Generator interface {
	LoginHandle(prefix string) string
	Password() string
	PatientID() string
}

// Random draws handles and patient IDs from random UUIDs and passwords
// from crypto/rand.
type Random struct{}

func NewRandom() Random {
	return Random{}
}

// LoginHandle returns <prefix>_<6 lowercase hex characters>.
func (Random) LoginHandle(prefix string) string {
	return prefix + "_" + randomHex(handleLength)
}

// PatientID returns PAT-<8 uppercase hex characters>.
func (Random) PatientID() string {
	return "PAT-" + strings.ToUpper(randomHex(patientIDLength))
}

// Password returns 8 characters drawn uniformly from [A-Za-z0-9]. It is
// only meant to be handed to the supervising doctor once.
func (Random) Password() string {
	max := big.NewInt(int64(len(passwordChars)))
	buf := make([]byte, passwordLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("credentials: crypto/rand unavailable: " + err.Error())
		}
		buf[i] = passwordChars[n.Int64()]
	}
	return string(buf)
}

// randomHex takes the first n hex digits of a v4 UUID. The version nibble
// sits at index 12, so n <= 12 stays fully random.
func randomHex(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
