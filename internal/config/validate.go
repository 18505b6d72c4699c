package config

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be in [%d, %d] (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}
	if c.Auth.InviteTTL <= 0 {
		return fmt.Errorf("auth.invite_ttl must be > 0 (got %v)", c.Auth.InviteTTL)
	}

	if err := c.Inventory.validate(); err != nil {
		return fmt.Errorf("inventory: %w", err)
	}

	if err := c.RateLimit.validate(c.Redis); err != nil {
		return fmt.Errorf("ratelimit: %w", err)
	}

	return nil
}

func (i *InventoryConfig) validate() error {
	if i.HomeShopID <= 0 {
		return fmt.Errorf("home_shop_id must be > 0 (got %d)", i.HomeShopID)
	}
	i.PhoneRegion = strings.ToUpper(strings.TrimSpace(i.PhoneRegion))
	if len(i.PhoneRegion) != 2 {
		return fmt.Errorf("phone_region must be a two-letter region code (got %q)", i.PhoneRegion)
	}
	if i.ListLimit <= 0 {
		return fmt.Errorf("list_limit must be > 0 (got %d)", i.ListLimit)
	}
	return nil
}

func (r *RateLimitConfig) validate(redis RedisConfig) error {
	switch r.Backend {
	case RateLimitBackendMemory:
	case RateLimitBackendRedis:
		if redis.Addr == "" {
			return fmt.Errorf("redis.addr is required when backend is %q", RateLimitBackendRedis)
		}
	default:
		return fmt.Errorf("backend must be %q or %q (got %q)", RateLimitBackendMemory, RateLimitBackendRedis, r.Backend)
	}
	if r.RequestsPerMin <= 0 {
		return fmt.Errorf("requests_per_min must be > 0 (got %d)", r.RequestsPerMin)
	}
	if r.LoginMaxAttempts <= 0 {
		return fmt.Errorf("login_max_attempts must be > 0 (got %d)", r.LoginMaxAttempts)
	}
	if r.LoginWindow <= 0 {
		return fmt.Errorf("login_window must be > 0 (got %v)", r.LoginWindow)
	}
	return nil
}
