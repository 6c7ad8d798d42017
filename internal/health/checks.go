package health

import (
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"
	healthHTTP "github.com/hellofresh/health-go/v5/checks/http"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"

	"github.com/trovemarket/storefront-client/internal/config"
)

func NewHealthHandler(cfg *config.Config) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{

			Name:    "storefront-client",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check: healthRedis.New(
					healthRedis.Config{
						DSN: cfg.RedisConnect.GetDSN(),
					},
				),
			},
			health.Config{
				Name:    "backend",
				Timeout: 5 * time.Second,
				// the client stays useful offline, a dead backend degrades
				// rather than fails the whole component
				SkipOnErr: true,
				Check: healthHTTP.New(healthHTTP.Config{
					URL: cfg.Backend.BaseURL,
				}),
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
