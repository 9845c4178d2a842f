package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
// Se construye una vez al arrancar y no se modifica después.
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Redis     RedisConfig
	Audit     AuditConfig
	RateLimit RateLimitConfig
	Plans     map[string]PlanLimits
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
// Driver "memory" arranca sin base de datos (desarrollo local).
type DBConfig struct {
	Driver      string
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host           string
	Port           int
	DocsEnabled    bool
	TrustedProxies []string // HTTP_TRUSTED_PROXIES, separados por coma
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig lista de revocación de tokens. URL vacía = revocación desactivada.
type RedisConfig struct {
	URL string
}

// AuditConfig cola del emisor de auditoría.
type AuditConfig struct {
	QueueSize int
}

// RateLimitConfig límite de intentos de login por IP.
type RateLimitConfig struct {
	LoginPerSecond float64
	LoginBurst     int
}

// PlanLimits límites por defecto de un plan.
type PlanLimits struct {
	MaxUsers    int
	MaxProjects int
}

var defaultPlans = map[string]PlanLimits{
	"free":       {MaxUsers: 5, MaxProjects: 3},
	"pro":        {MaxUsers: 25, MaxProjects: 15},
	"enterprise": {MaxUsers: 100, MaxProjects: 50},
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, REDIS_URL, etc.
func Load() (*Config, error) {
	v := newViper()

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "taskhub-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: loadDB(v),
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 24*60),
			Issuer:     getString(v, "JWT_ISSUER", "taskhub-api"),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "HTTP_PORT", 8080),
			DocsEnabled:    getBool(v, "DOCS_ENABLED", false),
			TrustedProxies: getList(v, "HTTP_TRUSTED_PROXIES"),
		},
		Redis: RedisConfig{
			URL: getString(v, "REDIS_URL", ""),
		},
		Audit: AuditConfig{
			QueueSize: getInt(v, "AUDIT_QUEUE_SIZE", 1024),
		},
		RateLimit: RateLimitConfig{
			LoginPerSecond: getFloat(v, "LOGIN_RATE_PER_SECOND", 1),
			LoginBurst:     getInt(v, "LOGIN_RATE_BURST", 5),
		},
		Plans: make(map[string]PlanLimits, len(defaultPlans)),
	}

	for plan, def := range defaultPlans {
		prefix := "PLAN_" + strings.ToUpper(plan)
		cfg.Plans[plan] = PlanLimits{
			MaxUsers:    getInt(v, prefix+"_MAX_USERS", def.MaxUsers),
			MaxProjects: getInt(v, prefix+"_MAX_PROJECTS", def.MaxProjects),
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDB lee solo la sección de base de datos (comandos de administración).
func LoadDB() (DBConfig, error) {
	db := loadDB(newViper())
	if err := db.validate(); err != nil {
		return DBConfig{}, err
	}
	return db, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	// Opcional: archivo .env o config.env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func loadDB(v *viper.Viper) DBConfig {
	return DBConfig{
		Driver:      strings.ToLower(getString(v, "STORAGE_DRIVER", "postgres")),
		DatabaseURL: getString(v, "DATABASE_URL", ""),
		Host:        getString(v, "DB_HOST", "localhost"),
		Port:        getInt(v, "DB_PORT", 5432),
		User:        getString(v, "DB_USER", "postgres"),
		Password:    getString(v, "DB_PASSWORD", ""),
		DBName:      getString(v, "DB_NAME", "taskhub"),
		SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
	}
}

func (c DBConfig) validate() error {
	if c.Driver != "postgres" && c.Driver != "memory" {
		return fmt.Errorf("config: STORAGE_DRIVER debe ser postgres o memory")
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("config: DB_MAX_CONNS debe ser positivo")
	}
	return nil
}

func (c *Config) validate() error {
	if err := c.DB.validate(); err != nil {
		return err
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio")
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("config: JWT_EXPIRATION_MINUTES debe ser positivo")
	}
	if c.Audit.QueueSize <= 0 {
		return fmt.Errorf("config: AUDIT_QUEUE_SIZE debe ser positivo")
	}
	for plan, l := range c.Plans {
		if l.MaxUsers <= 0 || l.MaxProjects <= 0 {
			return fmt.Errorf("config: límites del plan %s deben ser positivos", plan)
		}
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

func getList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range strings.Split(getString(v, key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
