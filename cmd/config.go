package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// DBConfig wraps up the config for the suppressed-locations database
type DBConfig struct {
	Host string
	Port int
	Name string
	User string
	Pass string
}

// SMTPConfig contains the configuration necessary to send mail
type SMTPConfig struct {
	Host    string
	Port    int
	User    string
	Pass    string
	Sender  string
	DevMode bool
}

// ItemStatusConfig controls how multi-valued call numbers and locations are
// reduced for display.
type ItemStatusConfig struct {
	CallNumberMode   string
	LocationMode     string
	PreferredService string
}

// ServiceConfig defines all of the holdings status service configuration parameters
type ServiceConfig struct {
	Port              int
	DAIAAPI           string
	JWTKey            string
	DataDir           string
	TemplateDir       string
	StaffRequestEmail string
	DB                DBConfig
	SMTP              SMTPConfig
	ItemStatus        ItemStatusConfig
}

// loadConfiguration will load the service configuration from env/cmdline
func loadConfiguration() *ServiceConfig {
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment overrides from .env")
	}

	var cfg ServiceConfig
	flag.IntVar(&cfg.Port, "port", 8080, "Service port (default 8080)")
	flag.StringVar(&cfg.JWTKey, "jwtkey", envOr("JWT_KEY", ""), "JWT signature key for patron tokens")
	flag.StringVar(&cfg.DAIAAPI, "daia", envOr("DAIA_API", ""), "DAIA Connector API URL")
	flag.StringVar(&cfg.DataDir, "data", "./data", "Directory containing display data files")
	flag.StringVar(&cfg.TemplateDir, "templates", "./templates", "Directory containing message templates")

	// Item status display settings
	flag.StringVar(&cfg.ItemStatus.CallNumberMode, "callnumbers", "msg", "Multiple call number mode (first, all or msg)")
	flag.StringVar(&cfg.ItemStatus.LocationMode, "locations", "msg", "Multiple location mode (first, all or msg)")
	flag.StringVar(&cfg.ItemStatus.PreferredService, "service", "", "Preferred service name, collapses the service list")

	// Suppressed locations database
	flag.StringVar(&cfg.DB.Host, "dbhost", envOr("DB_HOST", ""), "Database host")
	flag.IntVar(&cfg.DB.Port, "dbport", 5432, "Database port")
	flag.StringVar(&cfg.DB.Name, "dbname", envOr("DB_NAME", ""), "Database name")
	flag.StringVar(&cfg.DB.User, "dbuser", envOr("DB_USER", ""), "Database user")
	flag.StringVar(&cfg.DB.Pass, "dbpass", envOr("DB_PASS", ""), "Database password")

	// Staff request email delivery
	flag.StringVar(&cfg.StaffRequestEmail, "staffemail", envOr("STAFF_EMAIL", ""), "Service desk recipient for staff requests")
	flag.StringVar(&cfg.SMTP.Host, "smtphost", envOr("SMTP_HOST", ""), "SMTP Host")
	flag.IntVar(&cfg.SMTP.Port, "smtpport", 25, "SMTP Port")
	flag.StringVar(&cfg.SMTP.User, "smtpuser", envOr("SMTP_USER", ""), "SMTP User")
	flag.StringVar(&cfg.SMTP.Pass, "smtppass", envOr("SMTP_PASS", ""), "SMTP Password")
	flag.StringVar(&cfg.SMTP.Sender, "smtpsender", envOr("SMTP_SENDER", "holdings-status@library.example.edu"), "SMTP sender email")
	flag.BoolVar(&cfg.SMTP.DevMode, "stubsmtp", false, "Log email instead of sending (dev mode)")
	flag.Parse()

	if cfg.DAIAAPI == "" {
		log.Fatal("daia param is required")
	} else {
		log.Printf("DAIA Connector API endpoint: %s", cfg.DAIAAPI)
	}
	if !validReduceMode(cfg.ItemStatus.CallNumberMode) || !validReduceMode(cfg.ItemStatus.LocationMode) {
		log.Fatal("callnumbers and locations params must be one of: first, all, msg")
	}
	if cfg.JWTKey == "" {
		log.Printf("WARN: no jwtkey set; all requests are treated as anonymous")
	}
	if cfg.StaffRequestEmail == "" {
		log.Printf("WARN: no staffemail set; staff requests are disabled")
	}

	return &cfg
}

func validReduceMode(mode string) bool {
	return mode == reduceFirst || mode == reduceAll || mode == reduceMsg
}

func envOr(key string, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
