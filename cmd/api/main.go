package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/address-shipping/app/config"
	"github.com/address-shipping/app/controllers"
	"github.com/address-shipping/app/services"
	"github.com/address-shipping/internal/carriers"
	"github.com/address-shipping/internal/geo"
	"github.com/address-shipping/internal/parser"
	"github.com/address-shipping/internal/quote"
	"github.com/address-shipping/internal/ratelimit"
	"github.com/address-shipping/routes"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal("Cannot load config: ", err)
	}

	// 2. Khởi tạo logger
	logger := initLogger(cfg)
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting Address Shipping Service", zap.String("env", cfg.App.Env))

	// 3. Nguồn dữ liệu địa giới
	source, closeSource := initGeoSource(cfg, logger)
	defer closeSource()
	store := geo.NewStore(source, cfg.Geo.CacheTTL, logger)

	// nạp trước để lỗi dữ liệu lộ ra lúc khởi động; lỗi thì /ready báo 503
	warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := store.Snapshot(warmCtx); err != nil {
		logger.Warn("Chưa nạp được dữ liệu địa giới", zap.Error(err))
	}
	cancel()

	// 4. Redis (tùy chọn) dùng chung cho rate limit và cache
	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// 5. Parser
	matcher := parser.NewAddressMatcher(store, logger)
	addressParser := parser.NewAddressParser(matcher, logger)

	// 6. Cache + services
	cache, err := initCache(cfg, redisClient, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	addressService := services.NewAddressService(store, matcher, addressParser, cache, logger)

	limiter, err := initLimiter(cfg, redisClient)
	if err != nil {
		logger.Fatal("Failed to initialize rate limiter", zap.Error(err))
	}
	adapters := initCarriers(cfg, limiter, logger)
	aggregator := quote.NewAggregator(adapters, cfg.Quotes.AdapterTimeout, logger)
	quoteService := services.NewQuoteService(addressService, aggregator, logger)

	// 7. Controllers + routes
	addressController := controllers.NewAddressController(addressService, cfg.App.BatchLimit, logger)
	quoteController := controllers.NewQuoteController(quoteService, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, addressController, quoteController, logger)

	// 8. Khởi động server
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

// initLogger khởi tạo structured logger
func initLogger(cfg *config.Config) *zap.Logger {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	logger, err := zcfg.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger: ", err)
	}
	return logger
}

// initGeoSource chọn nguồn dữ liệu địa giới theo cấu hình
func initGeoSource(cfg *config.Config, logger *zap.Logger) (geo.Source, func()) {
	if cfg.Geo.Source == config.SourceFile {
		logger.Info("Dữ liệu địa giới từ file", zap.String("file", cfg.Geo.File))
		return geo.NewFileSource(cfg.Geo.File), func() {}
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.Geo.Mongo.URL))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	logger.Info("Connected to MongoDB", zap.String("database", cfg.Geo.Mongo.Database))

	db := client.Database(cfg.Geo.Mongo.Database)
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("Error disconnecting MongoDB", zap.Error(err))
		}
	}
	return geo.NewMongoSource(db, cfg.Geo.Mongo.Collection, logger), closeFn
}

// initRedis nil nếu không cấu hình redis.url
func initRedis(cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.Redis.URL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Invalid Redis URL", zap.Error(err))
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	return client
}

func initCache(cfg *config.Config, client *redis.Client, logger *zap.Logger) (services.IResolutionCache, error) {
	c := cfg.Cache
	if !c.Enabled {
		return nil, nil
	}
	switch c.Backend {
	case config.BackendMemory:
		return services.NewMemoryCacheService(c.L1Size, c.TTL), nil
	case config.BackendRedis:
		return services.NewRedisCacheService(client, c.KeyPrefix, c.TTL, logger), nil
	case config.BackendHybrid:
		return services.NewHybridCacheService(
			services.NewMemoryCacheService(c.L1Size, c.TTL),
			services.NewRedisCacheService(client, c.KeyPrefix, c.TTL, logger),
			logger), nil
	}
	return nil, fmt.Errorf("cache backend không hỗ trợ: %s", c.Backend)
}

func initLimiter(cfg *config.Config, client *redis.Client) (ratelimit.Limiter, error) {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.Unlimited{}, nil
	}
	if rl.Backend == config.BackendRedis {
		return ratelimit.NewRedisLimiter(client, rl.Requests, rl.Window)
	}
	return ratelimit.NewMemoryLimiter(rl.Requests, rl.Window, rl.MaxKeys)
}

// initCarriers tạo adapter cho các hãng được bật, theo thứ tự ghn, ghtk, vtp
func initCarriers(cfg *config.Config, limiter ratelimit.Limiter, logger *zap.Logger) []carriers.Adapter {
	toConfig := func(c config.CarrierConfig) carriers.Config {
		return carriers.Config{BaseURL: c.BaseURL, Token: c.Token, ShopID: c.ShopID, Timeout: c.Timeout}
	}

	var adapters []carriers.Adapter
	if c := cfg.Carriers.GHN; c.Enabled {
		adapters = append(adapters, carriers.NewGHN(toConfig(c), limiter, logger))
	}
	if c := cfg.Carriers.GHTK; c.Enabled {
		adapters = append(adapters, carriers.NewGHTK(toConfig(c), limiter, logger))
	}
	if c := cfg.Carriers.VTP; c.Enabled {
		adapters = append(adapters, carriers.NewVTP(toConfig(c), limiter, logger))
	}
	if len(adapters) == 0 {
		logger.Warn("Không có hãng vận chuyển nào được bật")
	}
	return adapters
}
