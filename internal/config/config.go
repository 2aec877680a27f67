package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/m04kA/SMC-DetailingBooking/internal/catalog"
	"github.com/m04kA/SMC-DetailingBooking/internal/domain"
	"github.com/m04kA/SMC-DetailingBooking/pkg/ptr"
	"github.com/m04kA/SMC-DetailingBooking/pkg/types"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Logs          LogsConfig          `toml:"logs"`
	Database      DatabaseConfig      `toml:"database"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Notifications NotificationsConfig `toml:"notifications"`
	Calendar      CalendarConfig      `toml:"calendar"`
	Catalog       CatalogConfig       `toml:"catalog"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" env:"DETAILING_HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
	RequestTimeout  int `toml:"request_timeout"`
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level" env:"DETAILING_LOG_LEVEL"`
	File  string `toml:"file" env:"DETAILING_LOG_FILE"`
}

// DatabaseConfig параметры хранилища бронирований
type DatabaseConfig struct {
	Driver          string `toml:"driver" env:"DETAILING_DB_DRIVER"`
	Host            string `toml:"host" env:"DETAILING_DB_HOST"`
	Port            int    `toml:"port" env:"DETAILING_DB_PORT"`
	User            string `toml:"user" env:"DETAILING_DB_USER"`
	Password        string `toml:"password" env:"DETAILING_DB_PASSWORD"`
	DBName          string `toml:"dbname" env:"DETAILING_DB_NAME"`
	SSLMode         string `toml:"sslmode" env:"DETAILING_DB_SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MetricsConfig параметры prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"DETAILING_METRICS_ENABLED"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// NotificationsConfig параметры очереди уведомлений (asynq поверх Redis)
type NotificationsConfig struct {
	Enabled             bool   `toml:"enabled" env:"DETAILING_NOTIFICATIONS_ENABLED"`
	RedisAddr           string `toml:"redis_addr" env:"DETAILING_REDIS_ADDR"`
	RedisPassword       string `toml:"redis_password" env:"DETAILING_REDIS_PASSWORD"`
	RedisDB             int    `toml:"redis_db"`
	Queue               string `toml:"queue"`
	ReminderBeforeHours int    `toml:"reminder_before_hours"`
	MaxRetry            int    `toml:"max_retry"`
}

// DayHoursConfig рабочие часы дня недели. Отсутствующий день считается выходным.
type DayHoursConfig struct {
	Open   string `toml:"open"`
	Close  string `toml:"close"`
	Closed bool   `toml:"closed"`
}

// CalendarConfig правила календаря
type CalendarConfig struct {
	TimeZone               string                    `toml:"timezone" env:"DETAILING_TIMEZONE"`
	SlotGranularityMinutes int                       `toml:"slot_granularity_minutes"`
	BufferMinutes          *int                      `toml:"buffer_minutes"`
	MinLeadTimeMinutes     *int                      `toml:"min_lead_time_minutes"`
	AdvanceBookingDays     *int                      `toml:"advance_booking_days"` // 0 = без ограничений
	Hours                  map[string]DayHoursConfig `toml:"hours"`
	BlackoutDates          []string                  `toml:"blackout_dates"`
}

// ItemConfig услуга или дополнительная опция каталога
type ItemConfig struct {
	ID              string `toml:"id"`
	Name            string `toml:"name"`
	DurationMinutes int    `toml:"duration_minutes"`
	PriceCents      int64  `toml:"price_cents"`
}

// CatalogConfig каталог услуг
type CatalogConfig struct {
	Currency string       `toml:"currency" env:"DETAILING_CURRENCY"`
	Language string       `toml:"language"`
	Services []ItemConfig `toml:"services" env:"-"`
	AddOns   []ItemConfig `toml:"add_ons" env:"-"`
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию
// и переопределения из переменных окружения, затем валидирует результат
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	return finalize(cfg)
}

// Parse разбирает конфигурацию из строки (используется в тестах и для встроенных конфигов)
func Parse(data string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}

	return finalize(cfg)
}

func finalize(cfg *Config) (*Config, error) {
	cfg.applyDefaults()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrReadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 5
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "detailing-booking"
	}

	if c.Notifications.Queue == "" {
		c.Notifications.Queue = "notifications"
	}
	if c.Notifications.ReminderBeforeHours == 0 {
		c.Notifications.ReminderBeforeHours = 24
	}
	if c.Notifications.MaxRetry == 0 {
		c.Notifications.MaxRetry = 3
	}

	if c.Calendar.TimeZone == "" {
		c.Calendar.TimeZone = domain.DefaultTimeZone
	}
	if c.Calendar.SlotGranularityMinutes == 0 {
		c.Calendar.SlotGranularityMinutes = domain.DefaultSlotGranularityMinutes
	}
	if c.Calendar.BufferMinutes == nil {
		c.Calendar.BufferMinutes = ptr.Ptr(domain.DefaultBufferMinutes)
	}
	if c.Calendar.MinLeadTimeMinutes == nil {
		c.Calendar.MinLeadTimeMinutes = ptr.Ptr(domain.DefaultMinLeadTimeMinutes)
	}
	if c.Calendar.AdvanceBookingDays == nil {
		c.Calendar.AdvanceBookingDays = ptr.Ptr(domain.DefaultAdvanceBookingDays)
	}

	if c.Catalog.Currency == "" {
		c.Catalog.Currency = domain.DefaultCurrency
	}
	if c.Catalog.Language == "" {
		c.Catalog.Language = domain.DefaultLanguage
	}
}

// Validate проверяет конфигурацию целиком, включая календарь и каталог
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d is out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres", ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Notifications.Enabled && c.Notifications.RedisAddr == "" {
		return fmt.Errorf("%w: notifications.redis_addr is required when notifications are enabled", ErrInvalidConfig)
	}
	if c.Notifications.ReminderBeforeHours < 0 {
		return fmt.Errorf("%w: notifications.reminder_before_hours must not be negative", ErrInvalidConfig)
	}

	if _, err := c.Policy(); err != nil {
		return err
	}

	if _, err := c.BuildCatalog(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// Policy строит политику календаря из секции [calendar]
func (c *Config) Policy() (*domain.CalendarPolicy, error) {
	loc, err := time.LoadLocation(c.Calendar.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: calendar.timezone %q: %v", ErrInvalidConfig, c.Calendar.TimeZone, err)
	}

	policy := &domain.CalendarPolicy{
		Location:           loc,
		SlotGranularity:    time.Duration(c.Calendar.SlotGranularityMinutes) * time.Minute,
		Buffer:             time.Duration(ptr.Deref(c.Calendar.BufferMinutes)) * time.Minute,
		MinLeadTime:        time.Duration(ptr.Deref(c.Calendar.MinLeadTimeMinutes)) * time.Minute,
		AdvanceBookingDays: ptr.Deref(c.Calendar.AdvanceBookingDays),
		BlackoutDates:      make(map[string]struct{}, len(c.Calendar.BlackoutDates)),
	}

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		policy.Hours[wd] = domain.DayHours{Closed: true}
	}

	for name, h := range c.Calendar.Hours {
		wd, ok := parseWeekday(name)
		if !ok {
			return nil, fmt.Errorf("%w: calendar.hours: unknown weekday %q", ErrInvalidConfig, name)
		}
		if h.Closed {
			continue
		}
		policy.Hours[wd] = domain.DayHours{
			Open:  types.TimeString(h.Open),
			Close: types.TimeString(h.Close),
		}
	}

	for _, d := range c.Calendar.BlackoutDates {
		date, err := time.Parse(domain.DateFormat, d)
		if err != nil {
			return nil, fmt.Errorf("%w: calendar.blackout_dates: %q: %v", ErrInvalidConfig, d, err)
		}
		policy.BlackoutDates[date.Format(domain.DateFormat)] = struct{}{}
	}

	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return policy, nil
}

// BuildCatalog строит каталог из секции [catalog]
func (c *Config) BuildCatalog() (*catalog.Catalog, error) {
	services := make([]domain.Service, 0, len(c.Catalog.Services))
	for _, s := range c.Catalog.Services {
		services = append(services, domain.Service{
			ID:              s.ID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			PriceCents:      s.PriceCents,
		})
	}

	addOns := make([]domain.AddOn, 0, len(c.Catalog.AddOns))
	for _, a := range c.Catalog.AddOns {
		addOns = append(addOns, domain.AddOn{
			ID:              a.ID,
			Name:            a.Name,
			DurationMinutes: a.DurationMinutes,
			PriceCents:      a.PriceCents,
		})
	}

	return catalog.New(services, addOns)
}

// ReminderBefore за сколько до начала работ отправлять напоминание
func (c NotificationsConfig) ReminderBefore() time.Duration {
	return time.Duration(c.ReminderBeforeHours) * time.Hour
}

func parseWeekday(name string) (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), name) {
			return wd, true
		}
	}
	return 0, false
}
