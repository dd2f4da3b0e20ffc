package config

import (
	"testing"
	"time"

	"golang-sales-analytics-service/internal/catalog"

	"github.com/shopspring/decimal"
)

func TestCreateCatalogConfig(t *testing.T) {
	tests := []struct {
		name        string
		baseURL     string
		timeout     time.Duration
		wantURL     string
		wantTimeout time.Duration
	}{
		{"all defaults", "", 0, catalog.DefaultBaseURL, catalog.DefaultTimeout},
		{"custom URL", "http://localhost:8080", 0, "http://localhost:8080", catalog.DefaultTimeout},
		{"custom timeout", "", 3 * time.Second, catalog.DefaultBaseURL, 3 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := CreateCatalogConfig(tt.baseURL, tt.timeout)
			if config.BaseURL != tt.wantURL {
				t.Errorf("expected URL %q, got %q", tt.wantURL, config.BaseURL)
			}
			if config.Timeout != tt.wantTimeout {
				t.Errorf("expected timeout %s, got %s", tt.wantTimeout, config.Timeout)
			}
		})
	}
}

func TestCreateFilterOptions(t *testing.T) {
	t.Run("no filters yields nil options", func(t *testing.T) {
		opts, warnings := CreateFilterOptions("", "", "")
		if opts != nil {
			t.Errorf("expected nil options, got %+v", opts)
		}
		if len(warnings) != 0 {
			t.Errorf("unexpected warnings: %v", warnings)
		}
	})

	t.Run("region only", func(t *testing.T) {
		opts, _ := CreateFilterOptions("North", "", "")
		if opts == nil || opts.Region != "North" {
			t.Fatalf("unexpected options: %+v", opts)
		}
		if opts.MinAmount != nil || opts.MaxAmount != nil {
			t.Error("amount bounds must stay unset")
		}
	})

	t.Run("valid amounts", func(t *testing.T) {
		opts, warnings := CreateFilterOptions("", "100", "1,500.50")
		if len(warnings) != 0 {
			t.Fatalf("unexpected warnings: %v", warnings)
		}
		if opts == nil || opts.MinAmount == nil || opts.MaxAmount == nil {
			t.Fatalf("expected both bounds set: %+v", opts)
		}
		if !opts.MinAmount.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected min 100, got %s", opts.MinAmount)
		}
		if !opts.MaxAmount.Equal(decimal.NewFromFloat(1500.50)) {
			t.Errorf("expected max 1500.50, got %s", opts.MaxAmount)
		}
	})

	t.Run("non-numeric bound warned and skipped", func(t *testing.T) {
		opts, warnings := CreateFilterOptions("North", "abc", "500")
		if len(warnings) != 1 {
			t.Fatalf("expected 1 warning, got %v", warnings)
		}
		if opts == nil || opts.MinAmount != nil {
			t.Error("invalid minimum must be skipped")
		}
		if opts.MaxAmount == nil {
			t.Error("valid maximum must still apply")
		}
	})

	t.Run("only invalid bounds yields nil options", func(t *testing.T) {
		opts, warnings := CreateFilterOptions("", "abc", "xyz")
		if opts != nil {
			t.Errorf("expected nil options, got %+v", opts)
		}
		if len(warnings) != 2 {
			t.Errorf("expected 2 warnings, got %v", warnings)
		}
	})
}
