package enums

import "fmt"

// RepairStatus tracks a repair ticket through the shop.
type RepairStatus string

const (
	RepairStatusReceived   RepairStatus = "received"
	RepairStatusInProgress RepairStatus = "in_progress"
	RepairStatusCompleted  RepairStatus = "completed"
	RepairStatusCancelled  RepairStatus = "cancelled"
)

var validRepairStatuses = []RepairStatus{
	RepairStatusReceived,
	RepairStatusInProgress,
	RepairStatusCompleted,
	RepairStatusCancelled,
}

// IsValid reports whether the value is a known RepairStatus.
func (s RepairStatus) IsValid() bool {
	for _, candidate := range validRepairStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRepairStatus converts raw input into a RepairStatus.
func ParseRepairStatus(value string) (RepairStatus, error) {
	for _, candidate := range validRepairStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid repair status %q", value)
}

// ServiceType selects how the device reaches the technician.
type ServiceType string

const (
	ServiceTypeInStore ServiceType = "in_store"
	ServiceTypeMailIn  ServiceType = "mail_in"
)

var validServiceTypes = []ServiceType{
	ServiceTypeInStore,
	ServiceTypeMailIn,
}

// IsValid reports whether the value is a known ServiceType.
func (s ServiceType) IsValid() bool {
	for _, candidate := range validServiceTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseServiceType converts raw input into a ServiceType.
func ParseServiceType(value string) (ServiceType, error) {
	for _, candidate := range validServiceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service type %q", value)
}
