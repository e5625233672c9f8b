package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// PlanConfig describes one subscription plan. Plans are static configuration:
// code -> monthly price, proposal ceiling and the billing-provider price ID.
type PlanConfig struct {
	Code          string  `yaml:"code"`
	Name          string  `yaml:"name"`
	MonthlyPrice  float64 `yaml:"monthly_price"`
	ProposalLimit int     `yaml:"proposal_limit"`
	StripePriceID string  `yaml:"stripe_price_id"`
}

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		Enabled      bool   `yaml:"enabled"`
	} `yaml:"email"`

	// Quota holds the business constants of the proposal quota engine.
	// Injected into services at construction so tests can override them.
	Quota struct {
		FreeProposalLimit    int     `yaml:"free_proposal_limit"`
		ContactUnlockPrice   float64 `yaml:"contact_unlock_price"`
		UrgentPromotionPrice float64 `yaml:"urgent_promotion_price"`
	} `yaml:"quota"`

	Billing struct {
		StripeSecretKey     string       `yaml:"stripe_secret_key"`
		StripeWebhookSecret string       `yaml:"stripe_webhook_secret"`
		CheckoutSuccessURL  string       `yaml:"checkout_success_url"`
		CheckoutCancelURL   string       `yaml:"checkout_cancel_url"`
		Plans               []PlanConfig `yaml:"plans"`
	} `yaml:"billing"`

	Notify struct {
		QueueSize int `yaml:"queue_size"`
	} `yaml:"notify"`
}

var AppConfig *Config

// PlanByCode returns the configured plan for a code, nil when unknown.
func (c *Config) PlanByCode(code string) *PlanConfig {
	for i := range c.Billing.Plans {
		if c.Billing.Plans[i].Code == code {
			return &c.Billing.Plans[i]
		}
	}
	return nil
}

// PlanByStripePriceID resolves a billing-provider price ID back to a plan.
func (c *Config) PlanByStripePriceID(priceID string) *PlanConfig {
	for i := range c.Billing.Plans {
		if c.Billing.Plans[i].StripePriceID == priceID {
			return &c.Billing.Plans[i]
		}
	}
	return nil
}

// LoadConfig reads config.yaml, or builds the config from environment
// variables when DATABASE_URL is set (test / container mode).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Billing.StripeSecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Billing.StripeWebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Billing.Plans = []PlanConfig{
		{Code: "basic_10", Name: "Básico", MonthlyPrice: 29.90, ProposalLimit: 10, StripePriceID: "price_basic_test"},
		{Code: "pro_50", Name: "Profissional", MonthlyPrice: 59.90, ProposalLimit: 50, StripePriceID: "price_pro_test"},
	}

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Quota.FreeProposalLimit == 0 {
		cfg.Quota.FreeProposalLimit = 3
	}
	if cfg.Quota.ContactUnlockPrice == 0 {
		cfg.Quota.ContactUnlockPrice = 9.90
	}
	if cfg.Quota.UrgentPromotionPrice == 0 {
		cfg.Quota.UrgentPromotionPrice = 14.90
	}
	if cfg.Notify.QueueSize == 0 {
		cfg.Notify.QueueSize = 256
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
