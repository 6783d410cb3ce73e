package engage

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTenantPolicyExists marks a create-policy conflict caused by an existing
// tenant-wide policy for the same feature. Callers treat it as success.
var ErrTenantPolicyExists = errors.New("a tenant level policy already exists")

// APIError is a non-2xx response from the policy service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("policy service: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("policy service: %s (status %d)", e.Message, e.StatusCode)
}

// Is lets errors.Is(err, ErrTenantPolicyExists) match the conflict response.
func (e *APIError) Is(target error) bool {
	return target == ErrTenantPolicyExists && e.isTenantPolicyConflict()
}

func (e *APIError) isTenantPolicyConflict() bool {
	if e.StatusCode != http.StatusConflict {
		return false
	}
	if e.Code == "TenantPolicyExists" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Message), "already a tenant level policy")
}
