package enums

import "fmt"

// WarrantyClaimStatus tracks review of a warranty claim.
type WarrantyClaimStatus string

const (
	WarrantyStatusSubmitted   WarrantyClaimStatus = "submitted"
	WarrantyStatusUnderReview WarrantyClaimStatus = "under_review"
	WarrantyStatusApproved    WarrantyClaimStatus = "approved"
	WarrantyStatusDenied      WarrantyClaimStatus = "denied"
)

var validWarrantyStatuses = []WarrantyClaimStatus{
	WarrantyStatusSubmitted,
	WarrantyStatusUnderReview,
	WarrantyStatusApproved,
	WarrantyStatusDenied,
}

// IsValid reports whether the value is a known WarrantyClaimStatus.
func (s WarrantyClaimStatus) IsValid() bool {
	for _, candidate := range validWarrantyStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseWarrantyClaimStatus converts raw input into a WarrantyClaimStatus.
func ParseWarrantyClaimStatus(value string) (WarrantyClaimStatus, error) {
	for _, candidate := range validWarrantyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid warranty claim status %q", value)
}
