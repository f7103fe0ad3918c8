package enums

import (
	"fmt"
	"strings"
)

// WholesaleStatus is the review state of a wholesale application.
type WholesaleStatus string

const (
	WholesaleStatusPending  WholesaleStatus = "pending"
	WholesaleStatusApproved WholesaleStatus = "approved"
	WholesaleStatusRejected WholesaleStatus = "rejected"
)

var validWholesaleStatuses = []WholesaleStatus{
	WholesaleStatusPending,
	WholesaleStatusApproved,
	WholesaleStatusRejected,
}

// IsValid reports whether the value is a known WholesaleStatus.
func (s WholesaleStatus) IsValid() bool {
	for _, candidate := range validWholesaleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// WholesaleTier is the discount bracket of an approved account.
type WholesaleTier string

const (
	WholesaleTierBronze WholesaleTier = "bronze"
	WholesaleTierSilver WholesaleTier = "silver"
	WholesaleTierGold   WholesaleTier = "gold"
)

var validWholesaleTiers = []WholesaleTier{
	WholesaleTierBronze,
	WholesaleTierSilver,
	WholesaleTierGold,
}

func (t WholesaleTier) String() string {
	return string(t)
}

// IsValid reports whether the value is a known WholesaleTier.
func (t WholesaleTier) IsValid() bool {
	for _, candidate := range validWholesaleTiers {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseWholesaleTier converts raw input into a WholesaleTier.
func ParseWholesaleTier(value string) (WholesaleTier, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validWholesaleTiers {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wholesale tier %q", value)
}

// WholesaleDecision is the admin verdict on a pending application.
type WholesaleDecision string

const (
	WholesaleDecisionApprove WholesaleDecision = "approve"
	WholesaleDecisionReject  WholesaleDecision = "reject"
)

// ParseWholesaleDecision converts raw input into a WholesaleDecision.
func ParseWholesaleDecision(value string) (WholesaleDecision, error) {
	switch WholesaleDecision(strings.ToLower(strings.TrimSpace(value))) {
	case WholesaleDecisionApprove:
		return WholesaleDecisionApprove, nil
	case WholesaleDecisionReject:
		return WholesaleDecisionReject, nil
	}
	return "", fmt.Errorf("invalid wholesale decision %q", value)
}
