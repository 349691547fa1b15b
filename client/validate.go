package client

import (
	"fmt"
	"regexp"
)

var (
	// deviceIDRegex validates device identifiers: exactly 16 alphanumeric characters.
	deviceIDRegex = regexp.MustCompile(`^[A-Za-z0-9]{16}$`)

	// activationCodeRegex validates activation codes: exactly 32 alphanumeric characters.
	activationCodeRegex = regexp.MustCompile(`^[A-Za-z0-9]{32}$`)
)

// ValidateDeviceID validates a device identifier: exactly 16 characters,
// letters and digits only.
func ValidateDeviceID(deviceID string) error {
	if deviceID == "" {
		return fmt.Errorf("DeviceId is required")
	}
	if !deviceIDRegex.MatchString(deviceID) {
		return fmt.Errorf("DeviceId must be exactly 16 alphanumeric characters")
	}
	return nil
}

// ValidateActivationCode validates an activation code: exactly 32 characters,
// letters and digits only.
func ValidateActivationCode(code string) error {
	if code == "" {
		return fmt.Errorf("ActivationCode is required")
	}
	if !activationCodeRegex.MatchString(code) {
		return fmt.Errorf("ActivationCode must be exactly 32 alphanumeric characters")
	}
	return nil
}

// ValidateEndpointID validates a server-assigned endpoint identifier.
func ValidateEndpointID(endpointID string) error {
	if endpointID == "" {
		return fmt.Errorf("EndpointId is required")
	}
	return nil
}

// validateDeviceIDs validates every identifier in ids.
func validateDeviceIDs(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("at least one DeviceId is required")
	}
	for _, id := range ids {
		if err := ValidateDeviceID(id); err != nil {
			return err
		}
	}
	return nil
}
