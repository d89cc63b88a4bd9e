package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Config representa a configuração completa da aplicação
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Metrics   MetricsConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Locale    LocaleConfig
	Export    ExportConfig
}

// ServerConfig contém configurações do servidor HTTP
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	MaxBodyBytes    int64
}

// DatabaseConfig contém configurações do banco de dados
type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
	SlowThreshold   time.Duration
	MigrationDir    string
	SkipMigrations  bool
}

// AuthConfig contém as credenciais do administrador inicial e o modo de senha
type AuthConfig struct {
	AdminUsername string
	AdminPassword string
	// plaintext ou bcrypt
	PasswordMode string
}

// RedisOptions contém configurações específicas para Redis
type RedisOptions struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RateLimitConfig controla o limite de tentativas de login por IP
type RateLimitConfig struct {
	Enabled     bool
	Type        string // memory, redis
	LoginLimit  int
	LoginPeriod time.Duration
	Redis       RedisOptions
}

// CORSConfig contém as origens aceitas pelo front-end
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         time.Duration
}

// MetricsConfig contém configurações de métricas
type MetricsConfig struct {
	Enabled        bool
	PrometheusPath string
}

// LoggingConfig contém configurações de logging
type LoggingConfig struct {
	Level      string
	Format     string // json, console
	OutputPath string
	ErrorPath  string
}

// TracingConfig contém configurações de rastreamento
type TracingConfig struct {
	Enabled       bool
	Endpoint      string
	ServiceName   string
	SamplingRatio float64
}

// LocaleConfig define o fuso e a cidade usados em relatórios e estatísticas
type LocaleConfig struct {
	Timezone string
	City     string
}

// ExportConfig contém configurações dos relatórios gerados
type ExportConfig struct {
	TempDir  string
	LogoPath string
}

// Location carrega o fuso horário configurado
func (l LocaleConfig) Location() (*time.Location, error) {
	return time.LoadLocation(l.Timezone)
}

// LoadConfig carrega a configuração de diversas fontes (arquivos, env, defaults)
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/provavida")

	if err := v.ReadInConfig(); err != nil {
		// Ignorar se o arquivo não for encontrado
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
		}
	}

	// Variáveis de ambiente com prefixo PV_
	v.SetEnvPrefix("PV")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Compatibilidade com implantações que exportam DATABASE_URL
	_ = v.BindEnv("database.dsn", "PV_DATABASE_DSN", "DATABASE_URL")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("erro ao mapear configuração: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultSettings devolve os valores padrão como mapa aninhado, com as chaves em minúsculas
func DefaultSettings() map[string]interface{} {
	v := viper.New()
	setDefaults(v)
	return v.AllSettings()
}

// setDefaults define valores padrão para a configuração
func setDefaults(v *viper.Viper) {
	// Servidor
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "60s")
	v.SetDefault("server.idleTimeout", "120s")
	v.SetDefault("server.shutdownTimeout", "10s")
	v.SetDefault("server.maxHeaderBytes", 1<<20)
	v.SetDefault("server.maxBodyBytes", 16<<20) // 16 MiB

	// Banco de dados
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./cadastros.db")
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.maxOpenConns", 20)
	v.SetDefault("database.connMaxLifetime", "1h")
	v.SetDefault("database.logLevel", "warn")
	v.SetDefault("database.slowThreshold", "200ms")
	v.SetDefault("database.migrationDir", "./migrations")
	v.SetDefault("database.skipMigrations", false)

	// Autenticação
	v.SetDefault("auth.adminUsername", "administrador")
	v.SetDefault("auth.adminPassword", "admin!alprev!")
	v.SetDefault("auth.passwordMode", "plaintext")

	// Limite de tentativas de login
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.type", "memory")
	v.SetDefault("rateLimit.loginLimit", 10)
	v.SetDefault("rateLimit.loginPeriod", "1m")
	v.SetDefault("rateLimit.redis.address", "localhost:6379")
	v.SetDefault("rateLimit.redis.db", 0)
	v.SetDefault("rateLimit.redis.poolSize", 10)
	v.SetDefault("rateLimit.redis.dialTimeout", "5s")
	v.SetDefault("rateLimit.redis.readTimeout", "3s")
	v.SetDefault("rateLimit.redis.writeTimeout", "3s")

	// CORS
	v.SetDefault("cors.allowedOrigins", []string{"*"})
	v.SetDefault("cors.maxAge", "12h")

	// Métricas
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.prometheusPath", "/metrics")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputPath", "stdout")
	v.SetDefault("logging.errorPath", "stderr")

	// Tracing
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.samplingRatio", 0.1)
	v.SetDefault("tracing.serviceName", "provavida")

	// Localização
	v.SetDefault("locale.timezone", "America/Maceio")
	v.SetDefault("locale.city", "Maceió")

	// Relatórios
	v.SetDefault("export.tempDir", "")
	v.SetDefault("export.logoPath", "./static/logo.png")
}

// validateConfig valida a configuração
func validateConfig(config *Config) error {
	validDrivers := map[string]bool{"sqlite": true, "mysql": true, "postgres": true}
	if !validDrivers[config.Database.Driver] {
		return fmt.Errorf("driver de banco de dados inválido: %s", config.Database.Driver)
	}

	if config.Auth.AdminUsername == "" || config.Auth.AdminPassword == "" {
		return fmt.Errorf("credenciais do administrador não podem ser vazias")
	}

	validModes := map[string]bool{"plaintext": true, "bcrypt": true}
	if !validModes[config.Auth.PasswordMode] {
		return fmt.Errorf("modo de senha inválido: %s", config.Auth.PasswordMode)
	}

	if config.RateLimit.Enabled {
		validTypes := map[string]bool{"memory": true, "redis": true}
		if !validTypes[config.RateLimit.Type] {
			return fmt.Errorf("tipo de rate limit inválido: %s", config.RateLimit.Type)
		}

		if config.RateLimit.Type == "redis" && config.RateLimit.Redis.Address == "" {
			return fmt.Errorf("rate limit do tipo redis requer um endereço")
		}

		if config.RateLimit.LoginLimit <= 0 || config.RateLimit.LoginPeriod <= 0 {
			return fmt.Errorf("limite e período de login devem ser positivos")
		}
	}

	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("tamanho máximo do corpo deve ser positivo")
	}

	if _, err := config.Locale.Location(); err != nil {
		return fmt.Errorf("fuso horário inválido %q: %w", config.Locale.Timezone, err)
	}

	return nil
}
