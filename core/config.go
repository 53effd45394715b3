package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool   `mapstructure:"debug"`
		TestMode bool   `mapstructure:"testMode"`
		AppName  string `mapstructure:"appName"`
		Env      string `mapstructure:"env"`
		Build    string `mapstructure:"build"`
		Timezone string `mapstructure:"timezone"`
		WorkDir  string `mapstructure:"-"`

		Server   ServerConfig   `mapstructure:"server"`
		Database DatabaseConfig `mapstructure:"database"`
		TipStore TipStoreConfig `mapstructure:"tipStore"`
		Mail     MailConfig     `mapstructure:"mail"`

		SendgridApiKey string `mapstructure:"sendgridApiKey"`
		RollbarToken   string `mapstructure:"rollbarToken"`

		location *time.Location
	}

	ServerConfig struct {
		Host            string        `mapstructure:"host"`
		DebugHost       string        `mapstructure:"debugHost"`
		ReadTimeout     time.Duration `mapstructure:"readTimeout"`
		WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	}

	// DatabaseConfig configures the entry store.
	// Engine is one of "postgres", "sqlite" or "memory".
	DatabaseConfig struct {
		Engine        string `mapstructure:"engine"`
		Host          string `mapstructure:"host"`
		Port          string `mapstructure:"port"`
		Name          string `mapstructure:"name"`
		User          string `mapstructure:"user"`
		Password      string `mapstructure:"password"`
		AdminUser     string `mapstructure:"adminUser"`
		AdminPassword string `mapstructure:"adminPassword"`
		DisableTLS    bool   `mapstructure:"disableTLS"`
		Path          string `mapstructure:"path"` // sqlite only
	}

	TipStoreConfig struct {
		Path string `mapstructure:"path"`
	}

	MailConfig struct {
		Backend          string        `mapstructure:"backend"` // console | smtp | sendgrid
		SmtpServer       string        `mapstructure:"smtpServer"`
		Port             int           `mapstructure:"port"`
		Username         string        `mapstructure:"username"`
		Password         string        `mapstructure:"password"`
		FromName         string        `mapstructure:"fromName"`
		FromEmail        string        `mapstructure:"fromEmail"`
		SummaryRecipient string        `mapstructure:"summaryRecipient"`
		Timeout          time.Duration `mapstructure:"timeout"`
	}
)

func (c *DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.Mail.FromName, Address: c.Mail.FromEmail}
}

func (c *Config) SummaryRecipient() mail.Address {
	return mail.Address{Address: c.Mail.SummaryRecipient}
}

// Location is the time zone used to decide what "today" is.
func (c *Config) Location() *time.Location {
	if c.location != nil {
		return c.location
	}
	if c.Timezone != "" {
		if loc, err := time.LoadLocation(c.Timezone); err == nil {
			return loc
		}
	}
	return time.Local
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Study Planner")
	v.SetDefault("build", "develop")
	v.SetDefault("timezone", "Local")

	v.SetDefault("server.host", ":8080")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 5*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "studyplanner")
	v.SetDefault("database.user", "studyplanner")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.path", filepath.Join("data", "study_entries.db"))

	v.SetDefault("tipStore.path", filepath.Join("data", "study_resources.db"))

	v.SetDefault("mail.backend", "console")
	v.SetDefault("mail.smtpServer", "localhost")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.fromName", "Study Planner")
	v.SetDefault("mail.fromEmail", "noreply@localhost")
	v.SetDefault("mail.summaryRecipient", "student@studyplanner.local")
	v.SetDefault("mail.timeout", 15*time.Second)

	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
}

// NewConfig loads the configuration for the current ENV (DEV by default) from defaults,
// the optional `config/.env.<env>` file and environment variables prefixed with the env name
// (e.g. DEV_DATABASE_HOST).
func NewConfig() *Config {
	conf, err := LoadConfig()
	if err != nil {
		log.Fatalf("core.NewConfig: %v", err)
	}
	return conf
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "QA", "PROD":
		v.SetDefault("debug", false)
	}
	v.SetDefault("env", env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "reading %s", dotEnvPath)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	conf.WorkDir = wd

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "loading timezone %q", conf.Timezone)
	}
	conf.location = loc

	return conf, nil
}
