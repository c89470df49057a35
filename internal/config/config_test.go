package config

import (
	"os"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Setenv("APP_ENV", "development")
	defer os.Unsetenv("APP_ENV")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.PulseWindowHours != 24 {
		t.Errorf("PulseWindowHours = %d, want 24", cfg.PulseWindowHours)
	}
	if cfg.CandidatePoolCap != 200 {
		t.Errorf("CandidatePoolCap = %d, want 200", cfg.CandidatePoolCap)
	}
	if cfg.ActivationReward != 20 {
		t.Errorf("ActivationReward = %d, want 20", cfg.ActivationReward)
	}
	if cfg.ScoreMin != 0 || cfg.ScoreMax != 100 {
		t.Errorf("score range = [%v, %v], want [0, 100]", cfg.ScoreMin, cfg.ScoreMax)
	}
	if cfg.SignalWeights.SameCollege != 30 {
		t.Errorf("SignalWeights.SameCollege = %v, want 30", cfg.SignalWeights.SameCollege)
	}
	if cfg.RedisEnabled() {
		t.Error("RedisEnabled() = true, want false with empty REDIS_ADDR")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	envVars := map[string]string{
		"APP_ENV":             "development",
		"PULSE_WINDOW_HOURS":  "48",
		"CANDIDATE_POOL_CAP":  "50",
		"SIGNAL_SAME_COLLEGE": "45",
		"REDIS_ADDR":          "localhost:6379",
	}
	for k, v := range envVars {
		os.Setenv(k, v)
	}
	defer func() {
		for k := range envVars {
			os.Unsetenv(k)
		}
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.PulseWindowHours != 48 {
		t.Errorf("PulseWindowHours = %d, want 48", cfg.PulseWindowHours)
	}
	if cfg.CandidatePoolCap != 50 {
		t.Errorf("CandidatePoolCap = %d, want 50", cfg.CandidatePoolCap)
	}
	if cfg.SignalWeights.SameCollege != 45 {
		t.Errorf("SignalWeights.SameCollege = %v, want 45", cfg.SignalWeights.SameCollege)
	}
	if !cfg.RedisEnabled() {
		t.Error("RedisEnabled() = false, want true")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AppEnv:   "development",
			ScoreMin: 0,
			ScoreMax: 100,
			ScoreWeights: ScoreWeights{
				ProfileCompleteness: 0.40,
				Engagement:          0.30,
				SocialActivity:      0.15,
				ResponseRate:        0.15,
			},
			EngagementNormMax:      1000,
			PulseWindowHours:       24,
			CleanupIntervalMinutes: 10,
			CandidatePoolCap:       200,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "Valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "Missing password outside development",
			mutate:  func(c *Config) { c.AppEnv = "production" },
			wantErr: true,
		},
		{
			name:    "Inverted score range",
			mutate:  func(c *Config) { c.ScoreMax = -1 },
			wantErr: true,
		},
		{
			name:    "Zero pulse window",
			mutate:  func(c *Config) { c.PulseWindowHours = 0 },
			wantErr: true,
		},
		{
			name:    "Zero cleanup interval",
			mutate:  func(c *Config) { c.CleanupIntervalMinutes = 0 },
			wantErr: true,
		},
		{
			name:    "Zero candidate pool cap",
			mutate:  func(c *Config) { c.CandidatePoolCap = 0 },
			wantErr: true,
		},
		{
			name:    "Weights do not sum to one",
			mutate:  func(c *Config) { c.ScoreWeights.Engagement = 0.5 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db.internal",
		DBPort:     "5433",
		DBUser:     "pulse",
		DBPassword: "secret",
		DBName:     "pulse_db",
		DBSSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=pulse password=secret dbname=pulse_db sslmode=require"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
