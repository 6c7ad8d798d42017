package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDR" env-default:":8090"`
}

type Backend struct {
	BaseURL string        `yaml:"base_url" env:"BACKEND_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"10s"`
	// ladder of order-list endpoint shapes, tried in order on 404
	BuyerOrderPaths []string `yaml:"buyer_order_paths" env:"BACKEND_BUYER_ORDER_PATHS" env-default:"/orders/buyer/my-orders,/orders/buyer,/orders"`
	SellerOrderPath string   `yaml:"seller_order_path" env:"BACKEND_SELLER_ORDER_PATH" env-default:"/orders/seller/my-orders"`
}

type Breaker struct {
	MaxFailures uint32        `yaml:"max_failures" env:"BREAKER_MAX_FAILURES" env-default:"5"`
	Interval    time.Duration `yaml:"interval" env:"BREAKER_INTERVAL" env-default:"60s"`
	Cooldown    time.Duration `yaml:"cooldown" env:"BREAKER_COOLDOWN" env-default:"30s"`
}

type RedisConnect struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Username string `yaml:"username" env:"REDIS_USER" env-default:""`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Debounce struct {
	Search     time.Duration `yaml:"search" env:"DEBOUNCE_SEARCH" env-default:"500ms"`
	PriceRange time.Duration `yaml:"price_range" env:"DEBOUNCE_PRICE_RANGE" env-default:"800ms"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-default:"development"`
	HTTPServer   `yaml:"http_server"`
	Backend      Backend      `yaml:"backend"`
	Breaker      Breaker      `yaml:"breaker"`
	RedisConnect RedisConnect `yaml:"redis"`
	Debounce     Debounce     `yaml:"debounce"`
}

func MustLoad() *Config {

	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			log.Fatal("Config path is not set")
		}

	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return &cfg
}

func (r *RedisConnect) GetDSN() string {
	if r.Password != "" {
		return fmt.Sprintf("redis://%s:%s@%s/%d", r.Username, r.Password, r.Addr, r.DB)
	}

	return fmt.Sprintf("redis://%s/%d", r.Addr, r.DB)
}
