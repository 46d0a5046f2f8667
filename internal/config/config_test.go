package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.AppEnv != EnvLocal {
		t.Fatalf("expected local env by default, got %q", cfg.AppEnv)
	}
	url, err := cfg.BaseURL()
	if err != nil {
		t.Fatalf("base url: %v", err)
	}
	if url != "https://localhost:7170/api" {
		t.Fatalf("unexpected default base url: %s", url)
	}
	if cfg.HasLocation {
		t.Fatalf("expected no static location by default")
	}
}

func TestDeviceEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "device")
	t.Setenv("DEVICE_API_URL", "https://192.168.1.20:7170/api/")

	url, err := Load().BaseURL()
	if err != nil {
		t.Fatalf("base url: %v", err)
	}
	if url != "https://192.168.1.20:7170/api" {
		t.Fatalf("unexpected device url: %s", url)
	}
}

func TestExplicitBaseURLWins(t *testing.T) {
	t.Setenv("APP_ENV", "device")
	t.Setenv("API_BASE_URL", "https://rutas.example.com/api")

	url, err := Load().BaseURL()
	if err != nil || url != "https://rutas.example.com/api" {
		t.Fatalf("expected explicit url, got %s (%v)", url, err)
	}
}

func TestUnknownEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	if _, err := Load().BaseURL(); err == nil {
		t.Fatalf("expected error for unknown env")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("API_INSECURE_TLS", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("DEVICE_ID", "phone-1")
	t.Setenv("LOCATION_LAT", "-0.18065")
	t.Setenv("LOCATION_LNG", "-78.46784")

	cfg := Load()
	if !cfg.InsecureTLS {
		t.Fatalf("expected insecure tls override")
	}
	if cfg.RedisAddr != "redis:6379" || cfg.DeviceID != "phone-1" {
		t.Fatalf("expected redis overrides")
	}
	if !cfg.HasLocation || cfg.LocationLat != -0.18065 || cfg.LocationLng != -78.46784 {
		t.Fatalf("expected static location, got %+v", cfg)
	}
}
