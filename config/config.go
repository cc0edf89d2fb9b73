package config

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port int    `yaml:"port" env:"PORT" env-default:"4000"`
		Env  string `yaml:"env" env:"ENV" env-default:"development"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level" env:"LOGLEVEL" env-default:"info"`
	} `yaml:"log"`
	Database struct {
		DSN          string `yaml:"dsn" env:"DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAXOPENCONNS" env-default:"25"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAXIDLECONNS" env-default:"25"`
		MaxIdleTime  string `yaml:"max_idle_time" env:"MAXIDLETIME" env-default:"15m"`
	} `yaml:"database"`
	SMTP struct {
		Host     string `yaml:"host" env:"SMTPHOST"`
		Port     int    `yaml:"port" env:"SMTPPORT" env-default:"25"`
		Username string `yaml:"username" env:"SMTPUSERNAME"`
		Password string `yaml:"password" env:"SMTPPASSWORD"`
		Sender   string `yaml:"sender" env:"SMTPSENDER" env-default:"Athenaeum <no-reply@athenaeum.local>"`
	} `yaml:"smtp"`
	S3 struct {
		AccessKeyID     string `yaml:"access_key_id" env:"ACCESSKEYID"`
		SecretAccessKey string `yaml:"secret_access_key" env:"SECRETACCESSKEY"`
		Region          string `yaml:"region" env:"REGION" env-default:"us-east-1"`
		Bucket          string `yaml:"bucket" env:"BUCKET"`
		Folder          string `yaml:"folder" env:"FOLDER" env-default:"library/books"`
		// Endpoint points the client at an S3-compatible store (MinIO, LocalStack).
		Endpoint string `yaml:"endpoint" env:"S3ENDPOINT"`
	} `yaml:"s3"`
	Loans struct {
		PeriodDays int     `yaml:"period_days" env:"LOANPERIODDAYS" env-default:"14"`
		FinePerDay float64 `yaml:"fine_per_day" env:"FINEPERDAY" env-default:"10"`
	} `yaml:"loans"`
	Readers struct {
		DefaultCountry string `yaml:"default_country" env:"DEFAULTCOUNTRY" env-default:"India"`
	} `yaml:"readers"`
	Auth struct {
		TokenTTL string `yaml:"token_ttl" env:"TOKENTTL" env-default:"24h"`
	} `yaml:"auth"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"RPS" env-default:"4"`
		Burst   int     `yaml:"burst" env:"BURST" env-default:"8"`
		Enabled bool    `yaml:"enabled" env:"LENABLED"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"TRUSTEDORIGINS" env-separator:" "`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"MENABLED"`
	} `yaml:"metrics"`
	BasicAuth struct {
		Username string `yaml:"username" env:"USERNAME"`
		Password string `yaml:"password" env:"PASSWORD"`
	} `yaml:"basic_auth"`
}

// Decode reads the YAML file at path, when it exists, and then applies
// environment overrides and defaults.
func Decode(path string) (Config, error) {
	var cfg Config
	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			defer f.Close()
			err = yaml.NewDecoder(f).Decode(&cfg)
			if err != nil && !errors.Is(err, io.EOF) {
				return Config{}, err
			}
		}
	}
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
