package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config cấu hình toàn bộ service
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Geo       GeoConfig       `mapstructure:"geo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Quotes    QuotesConfig    `mapstructure:"quotes"`
	Carriers  CarriersConfig  `mapstructure:"carriers"`
}

type AppConfig struct {
	Port            string        `mapstructure:"port"`
	Env             string        `mapstructure:"env"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	BatchLimit      int           `mapstructure:"batch_limit"`
}

// GeoConfig nguồn dữ liệu hành chính (mongo hoặc file)
type GeoConfig struct {
	Source   string        `mapstructure:"source"`
	File     string        `mapstructure:"file"`
	Mongo    MongoConfig   `mapstructure:"mongo"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type MongoConfig struct {
	URL        string `mapstructure:"url"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// RedisConfig dùng chung cho rate limit và cache; URL rỗng là không dùng Redis
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// CacheConfig cache kết quả parse: memory, redis hoặc hybrid
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Backend   string        `mapstructure:"backend"`
	L1Size    int           `mapstructure:"l1_size"`
	TTL       time.Duration `mapstructure:"ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Backend  string        `mapstructure:"backend"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	MaxKeys  int           `mapstructure:"max_keys"`
}

type QuotesConfig struct {
	AdapterTimeout time.Duration `mapstructure:"adapter_timeout"`
}

type CarriersConfig struct {
	GHN  CarrierConfig `mapstructure:"ghn"`
	GHTK CarrierConfig `mapstructure:"ghtk"`
	VTP  CarrierConfig `mapstructure:"vtp"`
}

// CarrierConfig thông tin kết nối một hãng
type CarrierConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	ShopID  string        `mapstructure:"shop_id"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Backend
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendHybrid = "hybrid"

	SourceMongo = "mongo"
	SourceFile  = "file"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.shutdown_timeout", 30*time.Second)
	v.SetDefault("app.batch_limit", 1000)

	v.SetDefault("geo.source", SourceMongo)
	v.SetDefault("geo.file", "")
	v.SetDefault("geo.mongo.url", "mongodb://localhost:27017")
	v.SetDefault("geo.mongo.database", "address_shipping")
	v.SetDefault("geo.mongo.collection", "admin_units")
	v.SetDefault("geo.cache_ttl", 5*time.Minute)

	v.SetDefault("redis.url", "")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", BackendMemory)
	v.SetDefault("cache.l1_size", 10000)
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.key_prefix", "addr:")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.backend", BackendMemory)
	v.SetDefault("rate_limit.requests", 60)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("rate_limit.max_keys", 10000)

	v.SetDefault("quotes.adapter_timeout", 10*time.Second)

	carriers := map[string]string{
		"ghn":  "https://online-gateway.ghn.vn",
		"ghtk": "https://services.giaohangtietkiem.vn",
		"vtp":  "https://partner.viettelpost.vn",
	}
	for name, url := range carriers {
		v.SetDefault("carriers."+name+".enabled", false)
		v.SetDefault("carriers."+name+".base_url", url)
		v.SetDefault("carriers."+name+".token", "")
		v.SetDefault("carriers."+name+".shop_id", "")
		v.SetDefault("carriers."+name+".timeout", 10*time.Second)
	}
}

// Load đọc cấu hình từ file (path rỗng thì tìm config/app.yaml), rồi ghi đè
// bằng biến môi trường: geo.mongo.url -> GEO_MONGO_URL.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// tên ngắn giữ tương thích với deployment cũ
	_ = v.BindEnv("app.port", "APP_PORT", "PORT")
	_ = v.BindEnv("geo.mongo.url", "GEO_MONGO_URL", "MONGO_URL")
	_ = v.BindEnv("redis.url", "REDIS_URL")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("app")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("lỗi đọc file cấu hình: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("lỗi parse cấu hình: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate kiểm tra các giá trị phụ thuộc lẫn nhau
func (c *Config) Validate() error {
	switch c.Geo.Source {
	case SourceMongo:
	case SourceFile:
		if c.Geo.File == "" {
			return errors.New("geo.file bắt buộc khi geo.source=file")
		}
	default:
		return fmt.Errorf("geo.source không hợp lệ: %q", c.Geo.Source)
	}

	if c.Cache.Enabled {
		switch c.Cache.Backend {
		case BackendMemory:
		case BackendRedis, BackendHybrid:
			if c.Redis.URL == "" {
				return fmt.Errorf("redis.url bắt buộc khi cache.backend=%s", c.Cache.Backend)
			}
		default:
			return fmt.Errorf("cache.backend không hợp lệ: %q", c.Cache.Backend)
		}
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
			return errors.New("rate_limit.requests và rate_limit.window phải > 0")
		}
		switch c.RateLimit.Backend {
		case BackendMemory:
		case BackendRedis:
			if c.Redis.URL == "" {
				return errors.New("redis.url bắt buộc khi rate_limit.backend=redis")
			}
		default:
			return fmt.Errorf("rate_limit.backend không hợp lệ: %q", c.RateLimit.Backend)
		}
	}

	if c.App.BatchLimit <= 0 {
		return errors.New("app.batch_limit phải > 0")
	}
	return nil
}

// IsProduction true khi chạy production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
