package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ScoreWeights is the attractiveness-score signal model. The four weights are
// fractions of the final 0-100 score and must sum to 1.
type ScoreWeights struct {
	ProfileCompleteness float64
	Engagement          float64
	SocialActivity      float64
	ResponseRate        float64
}

// SignalWeights drives recommendation ranking. Each signal is capped
// individually before summing so no single signal can dominate.
type SignalWeights struct {
	SameCollege           float64
	PerMutualFriend       float64
	MutualFriendCap       float64
	PerSharedInterest     float64
	SharedInterestCap     float64
	ScoreProximity        float64
	ScoreProximityRange   float64
	ActiveToday           float64
	GenderComplete        float64
	MutualFilterThreshold float64
}

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (suggestion cache, optional)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Application
	AppEnv   string
	LogLevel string

	// Scoring
	ScoreMin            float64
	ScoreMax            float64
	ScoreWeights        ScoreWeights
	EngagementNormMax   int64
	StreakNormMaxDays   int
	ActivationReward    int64
	InviteRewardPerUser int64

	// Friendship
	PulseWindowHours       int
	CleanupIntervalMinutes int

	// Recommendation
	CandidatePoolCap    int
	SuggestionLimit     int
	SignalWeights       SignalWeights
	SuggestionCacheTTLs int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "campuspulse"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "campuspulse_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ScoreMin: getEnvFloat("SCORE_MIN", 0),
		ScoreMax: getEnvFloat("SCORE_MAX", 100),
		ScoreWeights: ScoreWeights{
			ProfileCompleteness: getEnvFloat("SCORE_WEIGHT_COMPLETENESS", 0.40),
			Engagement:          getEnvFloat("SCORE_WEIGHT_ENGAGEMENT", 0.30),
			SocialActivity:      getEnvFloat("SCORE_WEIGHT_ACTIVITY", 0.15),
			ResponseRate:        getEnvFloat("SCORE_WEIGHT_RESPONSE", 0.15),
		},
		EngagementNormMax:   getEnvInt64("ENGAGEMENT_NORM_MAX", 1000),
		StreakNormMaxDays:   getEnvInt("STREAK_NORM_MAX_DAYS", 30),
		ActivationReward:    getEnvInt64("PULSE_ACTIVATION_REWARD", 20),
		InviteRewardPerUser: getEnvInt64("INVITE_REWARD_PER_USER", 2),

		PulseWindowHours:       getEnvInt("PULSE_WINDOW_HOURS", 24),
		CleanupIntervalMinutes: getEnvInt("CLEANUP_INTERVAL_MINUTES", 10),

		CandidatePoolCap: getEnvInt("CANDIDATE_POOL_CAP", 200),
		SuggestionLimit:  getEnvInt("SUGGESTION_LIMIT", 20),
		SignalWeights: SignalWeights{
			SameCollege:           getEnvFloat("SIGNAL_SAME_COLLEGE", 30),
			PerMutualFriend:       getEnvFloat("SIGNAL_PER_MUTUAL_FRIEND", 10),
			MutualFriendCap:       getEnvFloat("SIGNAL_MUTUAL_FRIEND_CAP", 40),
			PerSharedInterest:     getEnvFloat("SIGNAL_PER_SHARED_INTEREST", 5),
			SharedInterestCap:     getEnvFloat("SIGNAL_SHARED_INTEREST_CAP", 25),
			ScoreProximity:        getEnvFloat("SIGNAL_SCORE_PROXIMITY", 15),
			ScoreProximityRange:   getEnvFloat("SIGNAL_SCORE_PROXIMITY_RANGE", 10),
			ActiveToday:           getEnvFloat("SIGNAL_ACTIVE_TODAY", 10),
			GenderComplete:        getEnvFloat("SIGNAL_GENDER_COMPLETE", 10),
			MutualFilterThreshold: getEnvFloat("SIGNAL_MUTUAL_FILTER_THRESHOLD", 10),
		},
		SuggestionCacheTTLs: getEnvInt("SUGGESTION_CACHE_TTL_SECONDS", 60),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBPassword == "" && c.AppEnv != "development" {
		return fmt.Errorf("DB_PASSWORD is required outside development")
	}
	if c.ScoreMax <= c.ScoreMin {
		return fmt.Errorf("SCORE_MAX must be greater than SCORE_MIN")
	}
	if c.PulseWindowHours <= 0 {
		return fmt.Errorf("PULSE_WINDOW_HOURS must be positive")
	}
	if c.CleanupIntervalMinutes <= 0 {
		return fmt.Errorf("CLEANUP_INTERVAL_MINUTES must be positive")
	}
	if c.CandidatePoolCap <= 0 {
		return fmt.Errorf("CANDIDATE_POOL_CAP must be positive")
	}
	if c.EngagementNormMax <= 0 {
		return fmt.Errorf("ENGAGEMENT_NORM_MAX must be positive")
	}

	sum := c.ScoreWeights.ProfileCompleteness + c.ScoreWeights.Engagement +
		c.ScoreWeights.SocialActivity + c.ScoreWeights.ResponseRate
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("score weights must sum to 1, got %.3f", sum)
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetPulseWindow() time.Duration {
	return time.Duration(c.PulseWindowHours) * time.Hour
}

func (c *Config) GetCleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalMinutes) * time.Minute
}

func (c *Config) GetSuggestionCacheTTL() time.Duration {
	return time.Duration(c.SuggestionCacheTTLs) * time.Second
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
