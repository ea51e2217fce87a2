package credentials

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "darwinbox-agent"

type KeyType string

const (
	KeyAnthropic         KeyType = "anthropic_api_key"
	KeyDarwinboxPassword KeyType = "darwinbox_password"
	KeyLeaveAPI          KeyType = "darwinbox_leave_api_key"
	KeyEmployeeAPI       KeyType = "darwinbox_employee_api_key"
	KeyAttendanceAPI     KeyType = "darwinbox_attendance_api_key"
)

var allKeys = []KeyType{
	KeyAnthropic,
	KeyDarwinboxPassword,
	KeyLeaveAPI,
	KeyEmployeeAPI,
	KeyAttendanceAPI,
}

func Set(key KeyType, value string) error {
	return keyring.Set(serviceName, string(key), value)
}

func Get(key KeyType) (string, error) {
	return keyring.Get(serviceName, string(key))
}

func Delete(key KeyType) error {
	return keyring.Delete(serviceName, string(key))
}

// GetOrEnv prefers an already-resolved environment value and falls
// back to the keychain.
func GetOrEnv(key KeyType, envValue string) string {
	if envValue != "" {
		return envValue
	}
	val, err := Get(key)
	if err != nil {
		return ""
	}
	return val
}

func ListConfigured() map[KeyType]bool {
	result := make(map[KeyType]bool)
	for _, k := range allKeys {
		_, err := Get(k)
		result[k] = err == nil
	}
	return result
}

func ClearAll() error {
	var lastErr error
	for _, k := range allKeys {
		if err := Delete(k); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Setup stores whichever credentials were supplied; empty values are
// left untouched.
func Setup(values map[KeyType]string) error {
	for k, v := range values {
		if v == "" {
			continue
		}
		if err := Set(k, v); err != nil {
			return fmt.Errorf("failed to store %s: %w", k, err)
		}
	}
	return nil
}
