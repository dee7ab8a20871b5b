package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const loopbackHost = "127.0.0.1"

var ErrWeakPassword = errors.New("seed password does not satisfy the registration policy")

type Database struct {
	WriteDSN          string        `mapstructure:"write_dsn"`
	ReadDSN           string        `mapstructure:"read_dsn"`
	URL               string        `mapstructure:"url"`
	Host              string        `mapstructure:"host"`
	ReadHost          string        `mapstructure:"read_host"`
	Port              int           `mapstructure:"port"`
	Name              string        `mapstructure:"name"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	SSLMode           string        `mapstructure:"sslmode"`
	ContainerHostname string        `mapstructure:"container_hostname"`
	InContainer       bool          `mapstructure:"in_container"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
}

type Config struct {
	Database Database `mapstructure:"database"`
	API      API      `mapstructure:"api"`
	Seed     Seed     `mapstructure:"seed"`
	Log      Log      `mapstructure:"log"`
	NATS     NATS     `mapstructure:"nats"`
	Env      string   `mapstructure:"environment"`
}

type API struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
}

// Seed controls the size and shape of one batch.
type Seed struct {
	Users           int           `mapstructure:"users"`
	Password        string        `mapstructure:"password"`
	ResolveAttempts int           `mapstructure:"resolve_attempts"`
	ResolveInterval time.Duration `mapstructure:"resolve_interval"`
	RandomSeed      int64         `mapstructure:"random_seed"`
	Locale          string        `mapstructure:"locale"`
	Output          string        `mapstructure:"output"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type NATS struct {
	URL             string        `mapstructure:"url"`
	Stream          string        `mapstructure:"stream"`
	BatchSubject    string        `mapstructure:"batch_subject"`
	ConsumerDurable string        `mapstructure:"consumer_durable"`
	AckWait         time.Duration `mapstructure:"ack_wait"`
}

func Load(cfgFile string) (Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.mdd-seed")
		v.AddConfigPath("/etc/mdd-seed")
	}

	v.SetEnvPrefix("MDD_SEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASS")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("api.base_url", "API_URL")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	cfg, err := applyDSNDefaults(cfg)
	if err != nil {
		return Config{}, err
	}
	cfg.API.BaseURL = NormalizeAPIURL(cfg.API.BaseURL)
	if err := ValidatePassword(cfg.Seed.Password); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", loopbackHost)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "mddapp")
	v.SetDefault("database.user", "mdduser")
	v.SetDefault("database.password", "mddpassword")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.container_hostname", "db")
	v.SetDefault("database.in_container", false)
	v.SetDefault("database.connect_timeout", "5s")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("database.max_conn_idle_time", "5m")
	v.SetDefault("api.base_url", "http://localhost/api")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.rate_limit", 10)
	v.SetDefault("api.burst", 1)
	v.SetDefault("seed.users", 15)
	v.SetDefault("seed.password", "Password123!")
	v.SetDefault("seed.resolve_attempts", 5)
	v.SetDefault("seed.resolve_interval", "300ms")
	v.SetDefault("seed.random_seed", 0)
	v.SetDefault("seed.locale", "fr")
	v.SetDefault("seed.output", "generated_data/users_credentials.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("nats.stream", "seed")
	v.SetDefault("nats.batch_subject", "seed.batch.committed")
	v.SetDefault("nats.consumer_durable", "seed-events")
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("environment", "dev")
}

// applyDSNDefaults resolves the write DSN from, in order: an explicit DSN, a
// single connection URL, then the discrete host/port/credential fields.
func applyDSNDefaults(cfg Config) (Config, error) {
	db := &cfg.Database
	switch {
	case db.WriteDSN != "":
		dsn, err := substituteContainerHost(db.WriteDSN, *db)
		if err != nil {
			return Config{}, fmt.Errorf("database write_dsn: %w", err)
		}
		db.WriteDSN = dsn
	case db.URL != "":
		parsed, err := parseURL(db.URL)
		if err != nil {
			return Config{}, fmt.Errorf("database url: %w", err)
		}
		if parsed.host != "" {
			db.Host = parsed.host
		}
		if parsed.port != 0 {
			db.Port = parsed.port
		}
		if parsed.name != "" {
			db.Name = parsed.name
		}
		if parsed.user != "" {
			db.User = parsed.user
		}
		if parsed.password != "" {
			db.Password = parsed.password
		}
		fallthrough
	default:
		db.Host = resolveHost(db.Host, *db)
		db.WriteDSN = buildDSN(db.Host, db.Port, db.Name, db.User, db.Password, db.SSLMode)
	}

	if db.ReadDSN == "" && db.ReadHost != "" {
		readHost := resolveHost(db.ReadHost, *db)
		db.ReadDSN = buildDSN(readHost, db.Port, db.Name, db.User, db.Password, db.SSLMode)
	}
	return cfg, nil
}

// resolveHost swaps the container-network hostname for loopback when the
// process runs outside that network.
func resolveHost(host string, db Database) string {
	if host == "" {
		return loopbackHost
	}
	if !db.InContainer && db.ContainerHostname != "" && strings.EqualFold(host, db.ContainerHostname) {
		return loopbackHost
	}
	return host
}

func substituteContainerHost(dsn string, db Database) (string, error) {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return dsn, nil
	}
	host := parsed.Hostname()
	resolved := resolveHost(host, db)
	if resolved == host {
		return dsn, nil
	}
	if port := parsed.Port(); port != "" {
		parsed.Host = net.JoinHostPort(resolved, port)
	} else {
		parsed.Host = resolved
	}
	return parsed.String(), nil
}

type urlParts struct {
	host     string
	port     int
	name     string
	user     string
	password string
}

func parseURL(raw string) (urlParts, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "jdbc:")
	parsed, err := url.Parse(raw)
	if err != nil {
		return urlParts{}, err
	}
	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return urlParts{}, fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}

	out := urlParts{
		host: parsed.Hostname(),
		name: strings.TrimPrefix(parsed.Path, "/"),
	}
	if p := parsed.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return urlParts{}, fmt.Errorf("invalid port %q", p)
		}
		out.port = port
	}
	if parsed.User != nil {
		out.user = parsed.User.Username()
		out.password, _ = parsed.User.Password()
	}
	q := parsed.Query()
	if u := q.Get("user"); u != "" && out.user == "" {
		out.user = u
	}
	if p := q.Get("password"); p != "" && out.password == "" {
		out.password = p
	}
	return out, nil
}

func buildDSN(host string, port int, name, user, password, sslmode string) string {
	if sslmode == "" {
		sslmode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		Path:     "/" + name,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	if user != "" {
		if password != "" {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}
	return u.String()
}

// NormalizeAPIURL turns a bare path such as "/api" into a localhost URL and
// drops any trailing slash.
func NormalizeAPIURL(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		if !strings.HasPrefix(base, "/") {
			base = "/" + base
		}
		base = "http://localhost" + base
	}
	return strings.TrimRight(base, "/")
}

// ValidatePassword applies the application's registration password policy.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: at least 8 characters required", ErrWeakPassword)
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	if !lower || !upper || !digit || !special {
		return fmt.Errorf("%w: needs a lowercase letter, an uppercase letter, a digit and a symbol", ErrWeakPassword)
	}
	return nil
}
