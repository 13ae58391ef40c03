package smbus

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Force || config.TenBit || config.PEC {
		t.Errorf("Expected all flags off, got %+v", config)
	}
	if config.Retries != nil {
		t.Errorf("Expected nil Retries, got %d", *config.Retries)
	}
	if config.Timeout != 0 {
		t.Errorf("Expected zero Timeout, got %v", config.Timeout)
	}
	if config.Logger.GetLevel() != zerolog.Disabled {
		t.Errorf("Expected disabled logger, got level %v", config.Logger.GetLevel())
	}
}

func TestFunctionalOptions(t *testing.T) {
	config := DefaultConfig()
	opts := []Option{WithForce(), WithTenBit(), WithPEC(), WithRetries(3)}
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			t.Fatalf("option failed: %v", err)
		}
	}

	if !config.Force {
		t.Error("Expected Force")
	}
	if !config.TenBit {
		t.Error("Expected TenBit")
	}
	if !config.PEC {
		t.Error("Expected PEC")
	}
	if config.Retries == nil || *config.Retries != 3 {
		t.Errorf("Expected Retries 3, got %v", config.Retries)
	}
}

func TestWithRetries(t *testing.T) {
	config := DefaultConfig()
	if err := WithRetries(-1)(&config); err != ErrInvalidConfig {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if err := WithRetries(0)(&config); err != nil {
		t.Errorf("WithRetries(0) failed: %v", err)
	}
}

func TestWithTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		wantErr bool
	}{
		{"10ms (one jiffy)", 10 * time.Millisecond, false},
		{"1s", time.Second, false},
		{"0 (invalid)", 0, true},
		{"15ms (not multiple of 10ms)", 15 * time.Millisecond, true},
		{"-10ms (negative)", -10 * time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			err := WithTimeout(tt.timeout)(&config)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithTimeout(%v) error = %v, wantErr %v", tt.timeout, err, tt.wantErr)
			}
			if err == nil && config.Timeout != tt.timeout {
				t.Errorf("Timeout = %v, want %v", config.Timeout, tt.timeout)
			}
		})
	}
}
