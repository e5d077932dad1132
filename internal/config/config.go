package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Log struct {
		Level string
	}
	Database struct {
		Path string
	}
	Auth struct {
		TokenSecret string
		TokenTTL    time.Duration
		Latency     time.Duration
	}
	Jobs struct {
		MaxConcurrent  int
		StatusInterval time.Duration
		Docking        time.Duration
		Screening      time.Duration
		Quantum        time.Duration
	}
	Assistant struct {
		ReplyDelay time.Duration
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("QPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.path", "")
	v.SetDefault("auth.tokensecret", "")
	v.SetDefault("auth.tokenttl", 12*time.Hour)
	v.SetDefault("auth.latency", time.Second)
	v.SetDefault("jobs.maxconcurrent", 3)
	v.SetDefault("jobs.statusinterval", 500*time.Millisecond)
	v.SetDefault("jobs.docking", 3*time.Second)
	v.SetDefault("jobs.screening", 4*time.Second)
	v.SetDefault("jobs.quantum", 5*time.Second)
	v.SetDefault("assistant.replydelay", 1500*time.Millisecond)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "quantum-exports")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.TokenSecret) == "" {
		errs = append(errs, errors.New("auth.tokensecret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.tokenttl must be positive"))
	}
	if c.Jobs.MaxConcurrent <= 0 {
		errs = append(errs, errors.New("jobs.maxconcurrent must be positive"))
	}
	if c.Jobs.StatusInterval <= 0 {
		errs = append(errs, errors.New("jobs.statusinterval must be positive"))
	}
	return errors.Join(errs...)
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
