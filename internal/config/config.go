package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sflhq/league-service/internal/platform/logging"
)

const (
	EnvDev    = "dev"
	EnvTest   = "test"
	EnvDocker = "docker"
	EnvProd   = "prod"
)

// DBName is fixed; every environment talks to the same logical database.
const DBName = "league_db"

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                    string
	ServiceName               string
	ServiceVersion            string
	HTTPAddr                  string
	ReadTimeout               time.Duration
	WriteTimeout              time.Duration
	CORSAllowedOrigins        []string
	DBHost                    string
	DBPort                    int
	DBUser                    string
	DBPassword                string
	DBSSLMode                 string
	DBDisablePreparedBinary   bool
	MaxLeagueSize             int
	AuthServiceURL            string
	AuthTimeout               time.Duration
	AuthCacheTTL              time.Duration
	AuthCircuitEnabled        bool
	AuthCircuitFailureCount   int
	AuthCircuitOpenTimeout    time.Duration
	AuthCircuitHalfOpenMaxReq int
	CacheEnabled              bool
	CacheTTL                  time.Duration
	InviteSweepEnabled        bool
	InviteSweepInterval       time.Duration
	InviteSweepBatchSize      int
	InviteSweepWorkers        int
	InviteTTL                 time.Duration
	PprofEnabled              bool
	PprofAddr                 string
	PyroscopeEnabled          bool
	PyroscopeServerAddress    string
	PyroscopeAppName          string
	PyroscopeAuthToken        string
	PyroscopeUploadRate       time.Duration
	UptraceEnabled            bool
	UptraceDSN                string
	LogLevel                  logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	// Missing env files are fine; containers inject variables directly.
	loadEnvFile(appEnv)

	dbPort, err := getEnvAsInt("DB_PORT", 5432)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_PORT: %w", err)
	}
	if dbPort < 1 || dbPort > 65535 {
		return Config{}, fmt.Errorf("DB_PORT must be between 1 and 65535")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	maxLeagueSize, err := getEnvAsInt("MAX_LEAGUE_SIZE", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_LEAGUE_SIZE: %w", err)
	}
	if maxLeagueSize < 1 {
		return Config{}, fmt.Errorf("MAX_LEAGUE_SIZE must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	authTimeout, err := time.ParseDuration(getEnv("AUTH_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_TIMEOUT: %w", err)
	}
	if authTimeout <= 0 {
		return Config{}, fmt.Errorf("AUTH_TIMEOUT must be > 0")
	}

	authCacheTTL, err := time.ParseDuration(getEnv("AUTH_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CACHE_TTL: %w", err)
	}
	if authCacheTTL < 0 {
		return Config{}, fmt.Errorf("AUTH_CACHE_TTL must be >= 0")
	}

	authCircuitEnabled, err := strconv.ParseBool(getEnv("AUTH_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CIRCUIT_ENABLED: %w", err)
	}

	authCircuitFailureCount, err := getEnvAsInt("AUTH_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if authCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("AUTH_CIRCUIT_FAILURE_COUNT must be >= 1")
	}

	authCircuitOpenTimeout, err := time.ParseDuration(getEnv("AUTH_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if authCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("AUTH_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	authCircuitHalfOpenMaxReq, err := getEnvAsInt("AUTH_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if authCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("AUTH_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	inviteSweepEnabled, err := strconv.ParseBool(getEnv("INVITE_SWEEP_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INVITE_SWEEP_ENABLED: %w", err)
	}
	inviteSweepInterval, err := time.ParseDuration(getEnv("INVITE_SWEEP_INTERVAL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INVITE_SWEEP_INTERVAL: %w", err)
	}
	if inviteSweepInterval <= 0 {
		return Config{}, fmt.Errorf("INVITE_SWEEP_INTERVAL must be > 0")
	}
	inviteSweepBatchSize, err := getEnvAsInt("INVITE_SWEEP_BATCH_SIZE", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse INVITE_SWEEP_BATCH_SIZE: %w", err)
	}
	if inviteSweepBatchSize < 1 {
		return Config{}, fmt.Errorf("INVITE_SWEEP_BATCH_SIZE must be >= 1")
	}
	inviteSweepWorkers, err := getEnvAsInt("INVITE_SWEEP_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse INVITE_SWEEP_WORKERS: %w", err)
	}
	if inviteSweepWorkers < 1 {
		return Config{}, fmt.Errorf("INVITE_SWEEP_WORKERS must be >= 1")
	}
	inviteTTL, err := time.ParseDuration(getEnv("INVITE_TTL", "168h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INVITE_TTL: %w", err)
	}
	if inviteTTL <= 0 {
		return Config{}, fmt.Errorf("INVITE_TTL must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	cfg := Config{
		AppEnv:                    appEnv,
		ServiceName:               getEnv("APP_SERVICE_NAME", "league-service"),
		ServiceVersion:            getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                  net.JoinHostPort(getEnv("SERVER_HOST", "0.0.0.0"), getEnv("SERVER_PORT", "3002")),
		ReadTimeout:               readTimeout,
		WriteTimeout:              writeTimeout,
		CORSAllowedOrigins:        splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DBHost:                    getEnv("DB_HOST", "localhost"),
		DBPort:                    dbPort,
		DBUser:                    getEnv("DB_USER", "postgres"),
		DBPassword:                getEnv("DB_PASSWORD", "postgres"),
		DBSSLMode:                 getEnv("DB_SSLMODE", "disable"),
		DBDisablePreparedBinary:   dbDisablePreparedBinary,
		MaxLeagueSize:             maxLeagueSize,
		AuthServiceURL:            strings.TrimRight(strings.TrimSpace(getEnv("AUTH_SERVICE_URL", "http://localhost:3001")), "/"),
		AuthTimeout:               authTimeout,
		AuthCacheTTL:              authCacheTTL,
		AuthCircuitEnabled:        authCircuitEnabled,
		AuthCircuitFailureCount:   authCircuitFailureCount,
		AuthCircuitOpenTimeout:    authCircuitOpenTimeout,
		AuthCircuitHalfOpenMaxReq: authCircuitHalfOpenMaxReq,
		CacheEnabled:              cacheEnabled,
		CacheTTL:                  cacheTTL,
		InviteSweepEnabled:        inviteSweepEnabled,
		InviteSweepInterval:       inviteSweepInterval,
		InviteSweepBatchSize:      inviteSweepBatchSize,
		InviteSweepWorkers:        inviteSweepWorkers,
		InviteTTL:                 inviteTTL,
		PprofEnabled:              pprofEnabled,
		PprofAddr:                 pprofAddr,
		PyroscopeEnabled:          pyroscopeEnabled,
		PyroscopeServerAddress:    pyroscopeServerAddress,
		PyroscopeAuthToken:        strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:       pyroscopeUploadRate,
		UptraceEnabled:            uptraceEnabled,
		UptraceDSN:                uptraceDSN,
		LogLevel:                  parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if cfg.AuthServiceURL == "" {
		return Config{}, fmt.Errorf("AUTH_SERVICE_URL cannot be empty")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

// DBURL builds the postgres connection string. The database name is not
// configurable on purpose; see DBName.
func (c Config) DBURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		urlEscape(c.DBUser),
		urlEscape(c.DBPassword),
		net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		DBName,
		c.DBSSLMode,
	)
}

func urlEscape(v string) string {
	replacer := strings.NewReplacer("%", "%25", "@", "%40", ":", "%3A", "/", "%2F", "?", "%3F", "#", "%23")
	return replacer.Replace(v)
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvTest, EnvDocker, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s, %s", v, EnvDev, EnvTest, EnvDocker, EnvProd)
	}
}

func loadEnvFile(appEnv string) {
	path := ".env." + appEnv
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
