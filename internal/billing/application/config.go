package application

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	billing "propfolio-cloud/internal/billing/domain"
)

// PolicyConfig mirrors LateFeeConfig for the config file.
type PolicyConfig struct {
	GracePeriodDays int      `yaml:"grace_period_days"`
	FeeType         string   `yaml:"fee_type"`
	FeeAmount       float64  `yaml:"fee_amount"`
	MaxFeeAmount    *float64 `yaml:"max_fee_amount"`
	Disabled        bool     `yaml:"disabled"`
}

// ScheduleConfig holds cron expressions for the in-process billing jobs.
type ScheduleConfig struct {
	GenerateCharges string `yaml:"generate_charges"`
	ApplyLateFees   string `yaml:"apply_late_fees"`
}

// Config is the billing configuration, loaded from BILLING_CONFIG yaml with
// env fallbacks. DefaultPolicy overrides the built-in default late fee policy
// used for properties with no stored config.
type Config struct {
	DefaultPolicy PolicyConfig   `yaml:"default_policy"`
	Schedule      ScheduleConfig `yaml:"schedule"`
	CronSecret    string         `yaml:"cron_secret"`
}

// LoadConfig loads billing config from yaml or env.
func LoadConfig() (Config, error) {
	builtin := billing.DefaultLateFeeConfig()
	cfg := Config{
		DefaultPolicy: PolicyConfig{
			GracePeriodDays: getenvIntDefault("LATE_FEE_GRACE_DAYS", builtin.GracePeriodDays),
			FeeType:         getenvDefault("LATE_FEE_TYPE", string(builtin.FeeType)),
			FeeAmount:       getenvFloatDefault("LATE_FEE_AMOUNT", builtin.FeeAmount),
		},
		Schedule: ScheduleConfig{
			GenerateCharges: getenvDefault("BILLING_CHARGES_CRON", "0 2 1 * *"),
			ApplyLateFees:   getenvDefault("BILLING_LATE_FEES_CRON", "0 3 * * *"),
		},
		CronSecret: os.Getenv("BILLING_CRON_SECRET"),
	}

	if path := os.Getenv("BILLING_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if _, err := cfg.DefaultLateFeePolicy(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultLateFeePolicy converts the configured default policy to the domain
// type.
func (c Config) DefaultLateFeePolicy() (billing.LateFeeConfig, error) {
	feeType := billing.FeeType(c.DefaultPolicy.FeeType)
	switch feeType {
	case billing.FeeTypeFlat, billing.FeeTypePercentage:
	default:
		return billing.LateFeeConfig{}, errors.New("billing config: fee_type must be FLAT or PERCENTAGE")
	}
	if c.DefaultPolicy.GracePeriodDays < 0 {
		return billing.LateFeeConfig{}, errors.New("billing config: grace_period_days must be >= 0")
	}
	return billing.LateFeeConfig{
		GracePeriodDays: c.DefaultPolicy.GracePeriodDays,
		FeeType:         feeType,
		FeeAmount:       c.DefaultPolicy.FeeAmount,
		MaxFeeAmount:    c.DefaultPolicy.MaxFeeAmount,
		IsActive:        !c.DefaultPolicy.Disabled,
	}, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
