package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// ResendPolicy controls what happens when a billing run meets a record that
// already has a successful dispatch for the same period.
type ResendPolicy string

const (
	// ResendAlways re-dispatches the invoice on every run with a positive
	// total, even if an earlier run already sent one for the period.
	ResendAlways ResendPolicy = "always"
	// ResendOnce skips dispatch when a sent log already exists for the record.
	ResendOnce ResendPolicy = "once"
)

// BillingPolicy is the operator-editable billing policy.
type BillingPolicy struct {
	// RatePerDay is the daily attendance rate, uniform across the center.
	RatePerDay     string       `mapstructure:"ratePerDay"`
	Currency       string       `mapstructure:"currency"`
	ResendPolicy   ResendPolicy `mapstructure:"resendPolicy"`
	OperatorIDs    []string     `mapstructure:"operatorIds"`
	OperatorEmails []string     `mapstructure:"operatorEmails"`
}

func DefaultBillingPolicy() BillingPolicy {
	return BillingPolicy{
		RatePerDay:   "25.00",
		Currency:     "EUR",
		ResendPolicy: ResendAlways,
	}
}

// Rate parses RatePerDay. Invalid values fall back to the default rate.
func (p BillingPolicy) Rate() decimal.Decimal {
	rate, err := decimal.NewFromString(strings.TrimSpace(p.RatePerDay))
	if err != nil || rate.IsNegative() {
		rate, _ = decimal.NewFromString(DefaultBillingPolicy().RatePerDay)
	}
	return rate
}

// BillingPolicyHolder provides hot-reloadable access to the billing policy.
type BillingPolicyHolder struct {
	current atomic.Value // holds BillingPolicy
}

// NewBillingPolicyHolder reads billing.yml and watches it for changes.
func NewBillingPolicyHolder() (*BillingPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/frimousse")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FRIMOUSSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingPolicy()
	v.SetDefault("billing.ratePerDay", defaults.RatePerDay)
	v.SetDefault("billing.currency", defaults.Currency)
	v.SetDefault("billing.resendPolicy", string(defaults.ResendPolicy))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var policy BillingPolicy
	if err := v.UnmarshalKey("billing", &policy); err != nil {
		return nil, err
	}
	if err := validateBillingPolicy(policy); err != nil {
		return nil, err
	}

	holder := &BillingPolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingPolicy
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-policy] reload failed: %v", err)
			return
		}
		if err := validateBillingPolicy(updated); err != nil {
			log.Printf("[billing-policy] invalid policy ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-policy] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *BillingPolicyHolder) Get() BillingPolicy {
	return h.current.Load().(BillingPolicy)
}

// NewStaticBillingPolicyHolder wraps a fixed policy, for tests.
func NewStaticBillingPolicyHolder(policy BillingPolicy) *BillingPolicyHolder {
	holder := &BillingPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func validateBillingPolicy(policy BillingPolicy) error {
	if _, err := decimal.NewFromString(strings.TrimSpace(policy.RatePerDay)); err != nil {
		return errors.New("billing.ratePerDay must be a decimal number")
	}
	switch policy.ResendPolicy {
	case ResendAlways, ResendOnce, "":
	default:
		return errors.New("billing.resendPolicy must be \"always\" or \"once\"")
	}
	return nil
}
