package config

import "testing"

func validConfig() Config {
	return Config{
		App:  AppConfig{Env: "local", Port: 8080},
		Auth: AuthConfig{JWTSecret: "secret", DashboardPassword: "pw"},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_DefaultsFileStoreAndMemoryRegistry(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Store.Backend != StoreBackendFile || c.Store.DataDir != "data" {
		t.Fatalf("unexpected store defaults: %+v", c.Store)
	}
	if c.Registry.Backend != RegistryBackendMemory {
		t.Fatalf("unexpected registry default: %+v", c.Registry)
	}
}

func TestValidate_PostgresBackendRequiresDB(t *testing.T) {
	c := validConfig()
	c.Store.Backend = StoreBackendPostgres
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for postgres backend without DB config")
	}
}

func TestValidate_ProductionPostgresRequiresSSLMode(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.Auth.JWTIssuer = "issuer"
	c.Auth.JWTAudience = "aud"
	c.Store.Backend = StoreBackendPostgres
	c.DB = DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "calls"}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_LocalPostgresDefaultsSSLMode(t *testing.T) {
	c := validConfig()
	c.Store.Backend = StoreBackendPostgres
	c.DB = DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "calls"}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
}

func TestValidate_RedisRegistryRequiresRedis(t *testing.T) {
	c := validConfig()
	c.Registry.Backend = RegistryBackendRedis
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for redis registry without REDIS_HOST")
	}
}
