package logger

import (
	"slices"
	"testing"
)

const testUserDoe = "test_user_john_doe"

func TestDefaultFilterConfig(t *testing.T) {
	config := DefaultFilterConfig()

	if config == nil {
		t.Fatal("DefaultFilterConfig should not return nil")
	}

	if config.MaskValue != DefaultMaskValue {
		t.Errorf("Expected default mask value '***', got '%s'", config.MaskValue)
	}

	expectedFields := []string{"password", "secret", "token", "api_key", "connectionstring"}
	for _, expected := range expectedFields {
		if !slices.Contains(config.SensitiveFields, expected) {
			t.Errorf("Expected field '%s' to be in default sensitive fields", expected)
		}
	}
}

func TestNewSensitiveDataFilter(t *testing.T) {
	filter := NewSensitiveDataFilter(nil)
	if filter.MaskValue() != DefaultMaskValue {
		t.Errorf("Expected default mask value '***', got '%s'", filter.MaskValue())
	}

	customFilter := NewSensitiveDataFilter(&FilterConfig{
		SensitiveFields: []string{"custom_field"},
		MaskValue:       "[REDACTED]",
	})
	if customFilter.MaskValue() != "[REDACTED]" {
		t.Errorf("Expected custom mask value '[REDACTED]', got '%s'", customFilter.MaskValue())
	}

	emptyMask := NewSensitiveDataFilter(&FilterConfig{SensitiveFields: []string{"x"}})
	if emptyMask.MaskValue() != DefaultMaskValue {
		t.Errorf("Expected empty mask to fall back to '***', got '%s'", emptyMask.MaskValue())
	}
}

func TestFilterString(t *testing.T) {
	filter := NewSensitiveDataFilter(&FilterConfig{
		SensitiveFields: []string{"password", "secret"},
		MaskValue:       DefaultMaskValue,
	})

	if result := filter.FilterString("password", "mysecret"); result != DefaultMaskValue {
		t.Errorf("Expected '***', got '%s'", result)
	}

	if result := filter.FilterString("username", testUserDoe); result != testUserDoe {
		t.Errorf("Expected '%s', got '%s'", testUserDoe, result)
	}

	// Empty values stay empty so absence is still visible
	if result := filter.FilterString("password", ""); result != "" {
		t.Errorf("Expected empty string, got '%s'", result)
	}
}

func TestIsSensitive(t *testing.T) {
	filter := NewSensitiveDataFilter(nil)

	tests := []struct {
		field    string
		expected bool
	}{
		{"password", true},
		{"userPassword", true},
		{"DB_PASSWORD", true},
		{"access_token", true},
		{"Authorization", true},
		{"householdId", false},
		{"name", false},
	}

	for _, tt := range tests {
		if got := filter.IsSensitive(tt.field); got != tt.expected {
			t.Errorf("IsSensitive(%q) = %v, expected %v", tt.field, got, tt.expected)
		}
	}
}

func TestFilterValue(t *testing.T) {
	filter := NewSensitiveDataFilter(nil)

	if result := filter.FilterValue("secret", 42); result != DefaultMaskValue {
		t.Errorf("Expected sensitive non-string value to be masked, got '%v'", result)
	}

	if result := filter.FilterValue("count", 42); result != 42 {
		t.Errorf("Expected 42, got '%v'", result)
	}

	nested, ok := filter.FilterValue("params", map[string]any{"token": "abc", "id": "h-1"}).(map[string]any)
	if !ok {
		t.Fatal("Expected map[string]any result")
	}
	if nested["token"] != DefaultMaskValue || nested["id"] != "h-1" {
		t.Errorf("Unexpected nested filtering result: %v", nested)
	}

	strMap, ok := filter.FilterValue("headers", map[string]string{"authorization": "Bearer x", "accept": "json"}).(map[string]string)
	if !ok {
		t.Fatal("Expected map[string]string result")
	}
	if strMap["authorization"] != DefaultMaskValue || strMap["accept"] != "json" {
		t.Errorf("Unexpected string map filtering result: %v", strMap)
	}
}

func TestFilterFields(t *testing.T) {
	filter := NewSensitiveDataFilter(nil)
	fields := map[string]any{"password": "p", "vendor": "postgresql"}

	filtered := filter.FilterFields(fields)

	if filtered["password"] != DefaultMaskValue {
		t.Errorf("Expected password to be masked, got '%v'", filtered["password"])
	}
	if filtered["vendor"] != "postgresql" {
		t.Errorf("Expected vendor to be kept, got '%v'", filtered["vendor"])
	}
	if fields["password"] != "p" {
		t.Error("FilterFields must not modify its input")
	}
}
