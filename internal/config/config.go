package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/laliga-scout/internal/platform/logging"
)

const (
	CacheBackendFile     = "file"
	CacheBackendMemory   = "memory"
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                 string
	ServiceName            string
	ServiceVersion         string
	HTTPAddr               string
	ReadTimeout            time.Duration
	WriteTimeout           time.Duration
	CORSAllowedOrigins     []string
	LogLevel               logging.Level
	PprofEnabled           bool
	PprofAddr              string
	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeBasicAuthUser string
	PyroscopeBasicAuthPass string
	PyroscopeUploadRate    time.Duration

	RapidAPIKey                        string
	RapidAPIHost                       string
	TransfermarktBaseURL               string
	TransfermarktDomain                string
	TransfermarktTimeout               time.Duration
	TransfermarktRequestsPerMinute     int
	TransfermarktCircuitEnabled        bool
	TransfermarktCircuitFailureCount   int
	TransfermarktCircuitOpenTimeout    time.Duration
	TransfermarktCircuitHalfOpenMaxReq int

	CompetitionName   string
	CompetitionID     string
	SeasonWindowStart int
	SeasonWindowEnd   int
	AggregatorWorkers int

	CacheBackend   string
	CacheDir       string
	RedisURL       string
	RedisKeyPrefix string
	DBURL          string
	DBSSLMode      string
}

// Seasons returns the aggregation window in descending order.
func (c Config) Seasons() []int {
	if c.SeasonWindowStart < c.SeasonWindowEnd {
		return nil
	}
	out := make([]int, 0, c.SeasonWindowStart-c.SeasonWindowEnd+1)
	for season := c.SeasonWindowStart; season >= c.SeasonWindowEnd; season-- {
		out = append(out, season)
	}
	return out
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                 appEnv,
		ServiceName:            getEnv("APP_SERVICE_NAME", "laliga-scout"),
		ServiceVersion:         getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:               getEnv("APP_HTTP_ADDR", ":8000"),
		CORSAllowedOrigins:     splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofAddr:              strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		PyroscopeServerAddress: strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAppName:       strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", "")),
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPass: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		RapidAPIKey:            strings.TrimSpace(os.Getenv("RAPIDAPI_KEY")),
		RapidAPIHost:           strings.TrimSpace(os.Getenv("RAPIDAPI_HOST")),
		TransfermarktBaseURL:   strings.TrimRight(getEnv("TRANSFERMARKT_BASE_URL", "https://transfermarket.p.rapidapi.com"), "/"),
		TransfermarktDomain:    strings.TrimSpace(getEnv("TRANSFERMARKT_DOMAIN", "de")),
		CompetitionName:        strings.TrimSpace(getEnv("LEAGUE_COMPETITION_NAME", "LaLiga")),
		CompetitionID:          strings.TrimSpace(getEnv("LEAGUE_COMPETITION_ID", "ES1")),
		CacheDir:               strings.TrimSpace(getEnv("CACHE_DIR", "data")),
		RedisURL:               strings.TrimSpace(getEnv("REDIS_URL", "")),
		RedisKeyPrefix:         strings.TrimSpace(getEnv("REDIS_KEY_PREFIX", "laliga-scout")),
		DBURL:                  strings.TrimSpace(getEnv("DB_URL", "")),
		DBSSLMode:              strings.TrimSpace(getEnv("DB_SSLMODE", "disable")),
		LogLevel:               parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "120s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	if readTimeout <= 0 || writeTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_READ_TIMEOUT and APP_WRITE_TIMEOUT must be > 0")
	}
	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout

	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadTransfermarkt(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadAggregation(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadCache(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadObservability(cfg *Config) error {
	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	if pprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	if pyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = uptraceDSN
	cfg.PprofEnabled = pprofEnabled
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeUploadRate = pyroscopeUploadRate
	return nil
}

func loadTransfermarkt(cfg *Config) error {
	if cfg.TransfermarktBaseURL == "" {
		return fmt.Errorf("TRANSFERMARKT_BASE_URL must not be empty")
	}

	timeout, err := time.ParseDuration(getEnv("TRANSFERMARKT_TIMEOUT", "30s"))
	if err != nil {
		return fmt.Errorf("parse TRANSFERMARKT_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("TRANSFERMARKT_TIMEOUT must be > 0")
	}

	rpm, err := getEnvAsInt("TRANSFERMARKT_REQUESTS_PER_MINUTE", 0)
	if err != nil {
		return fmt.Errorf("parse TRANSFERMARKT_REQUESTS_PER_MINUTE: %w", err)
	}
	if rpm < 0 {
		return fmt.Errorf("TRANSFERMARKT_REQUESTS_PER_MINUTE must be >= 0")
	}

	circuitEnabled, err := strconv.ParseBool(getEnv("TRANSFERMARKT_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("parse TRANSFERMARKT_CIRCUIT_ENABLED: %w", err)
	}
	failureCount, err := getEnvAsInt("TRANSFERMARKT_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return fmt.Errorf("parse TRANSFERMARKT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if failureCount < 1 {
		return fmt.Errorf("TRANSFERMARKT_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	openTimeout, err := time.ParseDuration(getEnv("TRANSFERMARKT_CIRCUIT_OPEN_TIMEOUT", "20s"))
	if err != nil {
		return fmt.Errorf("parse TRANSFERMARKT_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if openTimeout <= 0 {
		return fmt.Errorf("TRANSFERMARKT_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	halfOpenMaxReq, err := getEnvAsInt("TRANSFERMARKT_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return fmt.Errorf("parse TRANSFERMARKT_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if halfOpenMaxReq < 1 {
		return fmt.Errorf("TRANSFERMARKT_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cfg.TransfermarktTimeout = timeout
	cfg.TransfermarktRequestsPerMinute = rpm
	cfg.TransfermarktCircuitEnabled = circuitEnabled
	cfg.TransfermarktCircuitFailureCount = failureCount
	cfg.TransfermarktCircuitOpenTimeout = openTimeout
	cfg.TransfermarktCircuitHalfOpenMaxReq = halfOpenMaxReq
	return nil
}

func loadAggregation(cfg *Config) error {
	if cfg.CompetitionName == "" {
		return fmt.Errorf("LEAGUE_COMPETITION_NAME must not be empty")
	}
	if cfg.CompetitionID == "" {
		return fmt.Errorf("LEAGUE_COMPETITION_ID must not be empty")
	}

	start, err := getEnvAsInt("SEASON_WINDOW_START", 2024)
	if err != nil {
		return fmt.Errorf("parse SEASON_WINDOW_START: %w", err)
	}
	end, err := getEnvAsInt("SEASON_WINDOW_END", 2017)
	if err != nil {
		return fmt.Errorf("parse SEASON_WINDOW_END: %w", err)
	}
	if end <= 0 {
		return fmt.Errorf("SEASON_WINDOW_END must be > 0")
	}
	if start < end {
		return fmt.Errorf("SEASON_WINDOW_START (%d) must be >= SEASON_WINDOW_END (%d)", start, end)
	}

	workers, err := getEnvAsInt("AGGREGATOR_WORKERS", 1)
	if err != nil {
		return fmt.Errorf("parse AGGREGATOR_WORKERS: %w", err)
	}
	if workers < 1 {
		return fmt.Errorf("AGGREGATOR_WORKERS must be >= 1")
	}

	cfg.SeasonWindowStart = start
	cfg.SeasonWindowEnd = end
	cfg.AggregatorWorkers = workers
	return nil
}

func loadCache(cfg *Config) error {
	backend := strings.ToLower(strings.TrimSpace(getEnv("CACHE_BACKEND", CacheBackendFile)))
	switch backend {
	case CacheBackendFile:
		if cfg.CacheDir == "" {
			return fmt.Errorf("CACHE_DIR is required when CACHE_BACKEND=file")
		}
	case CacheBackendMemory:
	case CacheBackendRedis:
		if cfg.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
		}
	case CacheBackendPostgres:
		if cfg.DBURL == "" {
			return fmt.Errorf("DB_URL is required when CACHE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q: valid values are %s, %s, %s, %s",
			backend, CacheBackendFile, CacheBackendMemory, CacheBackendRedis, CacheBackendPostgres)
	}

	cfg.CacheBackend = backend
	return nil
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

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
