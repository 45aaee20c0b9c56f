// Package registry holds the set of outstanding one-time activation codes.
// A code lives from admin issuance until its single successful redemption;
// unused codes never expire.
package registry

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"groupgate/entity"
)

const (
	FormatNumeric = "numeric"
	FormatToken   = "token"

	defaultLength = 6
	maxAttempts   = 100
)

type Registry struct {
	mu     sync.Mutex
	codes  map[string]entity.ActivationCode
	format string
	length int
}

func New(format string, length int) *Registry {
	if format == "" {
		format = FormatNumeric
	}
	if length <= 0 {
		length = defaultLength
	}
	return &Registry{
		codes:  make(map[string]entity.ActivationCode),
		format: format,
		length: length,
	}
}

// Issue generates a fresh code distinct from all outstanding ones and records
// it as valid. Distinctness is only checked against the current set; a value
// redeemed in the past may legitimately come up again.
func (r *Registry) Issue(createdBy int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < maxAttempts; i++ {
		code, err := r.generate()
		if err != nil {
			return "", err
		}
		if _, exists := r.codes[code]; exists {
			continue
		}
		r.codes[code] = entity.ActivationCode{
			Code:      code,
			CreatedBy: createdBy,
			CreatedAt: time.Now().UTC(),
		}
		return code, nil
	}
	return "", fmt.Errorf("no free code after %d attempts", maxAttempts)
}

// Redeem consumes the code if it is outstanding. The check-and-remove is
// atomic: when two callers race on the same code, exactly one succeeds.
func (r *Registry) Redeem(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codes[code]; !ok {
		return false
	}
	delete(r.codes, code)
	return true
}

func (r *Registry) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.codes)
}

// Snapshot returns a copy of the outstanding codes for persistence.
func (r *Registry) Snapshot() []entity.ActivationCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	codes := make([]entity.ActivationCode, 0, len(r.codes))
	for _, c := range r.codes {
		codes = append(codes, c)
	}
	return codes
}

// Restore replaces the outstanding set with previously persisted codes.
func (r *Registry) Restore(codes []entity.ActivationCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = make(map[string]entity.ActivationCode, len(codes))
	for _, c := range codes {
		r.codes[c.Code] = c
	}
}

func (r *Registry) generate() (string, error) {
	switch r.format {
	case FormatToken:
		token := strings.ReplaceAll(uuid.New().String(), "-", "")
		if r.length < len(token) {
			token = token[:r.length]
		}
		return token, nil
	default:
		return numericCode(r.length)
	}
}

// numericCode draws a uniformly random fixed-length digit string,
// leading zeros included.
func numericCode(length int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
