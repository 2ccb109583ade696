package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the process-wide, read-only configuration loaded once at startup.
type Config struct {
	Env       string
	Port      int
	APIPrefix string

	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	WeightsAO AOWeights
	WeightsNA NAWeights
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig governs the CP-SAT solver driver, per spec.md §4.4/§6.
type SchedulerConfig struct {
	TimeLimitSeconds     int
	RandomSeed           int64
	MaxConcurrentSolves  int
	NumSearchWorkers     int
	RelaxedUpperBoundGap int // how much H4 relaxes by on an INFEASIBLE retry (base+N)
}

// AOWeights holds every AÖ penalty coefficient named in spec.md §4.3, one field
// per tier/term so each can be overridden independently via environment variables.
type AOWeights struct {
	Unavailability        int64
	BelowIdealMinus2      int64
	AboveIdealPlus2       int64
	ZeroAssignments       int64
	UnavailabilityTie     int64
	ThreeConsecutiveDays  int64
	SoftIdealDeviation    int64
	HistoryFairness       int64
	DutyTypeFairness      int64
	NightFairness         int64
	WeekendSlotFairness   int64
	WeeklyClustering      int64
	TwoShiftsSameDay      int64
	ConsecutiveNight      int64
	DislikesWeekend       int64
	LikesNight            int64
	LexicographicTiebreak int64
}

// NAWeights holds every NA penalty coefficient named in spec.md §4.3.
type NAWeights struct {
	Unavailability        int64
	AboveIdealPlus2       int64
	ThreeConsecutiveDays  int64
	SegmentFairness       int64
	HistoryFairness       int64
	WeeklyClustering      int64
	BothSegmentsSameDay   int64
	LikesMorningMatched   int64
	LikesEveningMatched   int64
	LexicographicTiebreak int64
}

// Load reads configuration from the environment (and an optional .env file),
// applying the defaults in spec.md §4.3 and §6.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}
	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		TimeLimitSeconds:     v.GetInt("SCHEDULER_TIME_LIMIT_SECONDS"),
		RandomSeed:           v.GetInt64("SCHEDULER_RANDOM_SEED"),
		MaxConcurrentSolves:  v.GetInt("SCHEDULER_MAX_CONCURRENT_SOLVES"),
		NumSearchWorkers:     v.GetInt("SCHEDULER_NUM_SEARCH_WORKERS"),
		RelaxedUpperBoundGap: v.GetInt("SCHEDULER_RELAXED_UPPER_BOUND_GAP"),
	}

	cfg.WeightsAO = AOWeights{
		Unavailability:        v.GetInt64("WEIGHT_AO_UNAVAILABILITY"),
		BelowIdealMinus2:      v.GetInt64("WEIGHT_AO_BELOW_IDEAL_MINUS_2"),
		AboveIdealPlus2:       v.GetInt64("WEIGHT_AO_ABOVE_IDEAL_PLUS_2"),
		ZeroAssignments:       v.GetInt64("WEIGHT_AO_ZERO_ASSIGNMENTS"),
		UnavailabilityTie:     v.GetInt64("WEIGHT_AO_UNAVAILABILITY_TIE"),
		ThreeConsecutiveDays:  v.GetInt64("WEIGHT_AO_THREE_CONSECUTIVE_DAYS"),
		SoftIdealDeviation:    v.GetInt64("WEIGHT_AO_SOFT_IDEAL_DEVIATION"),
		HistoryFairness:       v.GetInt64("WEIGHT_AO_HISTORY_FAIRNESS"),
		DutyTypeFairness:      v.GetInt64("WEIGHT_AO_DUTY_TYPE_FAIRNESS"),
		NightFairness:         v.GetInt64("WEIGHT_AO_NIGHT_FAIRNESS"),
		WeekendSlotFairness:   v.GetInt64("WEIGHT_AO_WEEKEND_SLOT_FAIRNESS"),
		WeeklyClustering:      v.GetInt64("WEIGHT_AO_WEEKLY_CLUSTERING"),
		TwoShiftsSameDay:      v.GetInt64("WEIGHT_AO_TWO_SHIFTS_SAME_DAY"),
		ConsecutiveNight:      v.GetInt64("WEIGHT_AO_CONSECUTIVE_NIGHT"),
		DislikesWeekend:       v.GetInt64("WEIGHT_AO_DISLIKES_WEEKEND"),
		LikesNight:            v.GetInt64("WEIGHT_AO_LIKES_NIGHT"),
		LexicographicTiebreak: v.GetInt64("WEIGHT_AO_LEXICOGRAPHIC_TIEBREAK"),
	}

	cfg.WeightsNA = NAWeights{
		Unavailability:        v.GetInt64("WEIGHT_NA_UNAVAILABILITY"),
		AboveIdealPlus2:       v.GetInt64("WEIGHT_NA_ABOVE_IDEAL_PLUS_2"),
		ThreeConsecutiveDays:  v.GetInt64("WEIGHT_NA_THREE_CONSECUTIVE_DAYS"),
		SegmentFairness:       v.GetInt64("WEIGHT_NA_SEGMENT_FAIRNESS"),
		HistoryFairness:       v.GetInt64("WEIGHT_NA_HISTORY_FAIRNESS"),
		WeeklyClustering:      v.GetInt64("WEIGHT_NA_WEEKLY_CLUSTERING"),
		BothSegmentsSameDay:   v.GetInt64("WEIGHT_NA_BOTH_SEGMENTS_SAME_DAY"),
		LikesMorningMatched:   v.GetInt64("WEIGHT_NA_LIKES_MORNING_MATCHED"),
		LikesEveningMatched:   v.GetInt64("WEIGHT_NA_LIKES_EVENING_MATCHED"),
		LexicographicTiebreak: v.GetInt64("WEIGHT_NA_LEXICOGRAPHIC_TIEBREAK"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_TIME_LIMIT_SECONDS", 60)
	v.SetDefault("SCHEDULER_RANDOM_SEED", 42)
	v.SetDefault("SCHEDULER_MAX_CONCURRENT_SOLVES", 4)
	v.SetDefault("SCHEDULER_NUM_SEARCH_WORKERS", 8)
	v.SetDefault("SCHEDULER_RELAXED_UPPER_BOUND_GAP", 3)

	// AÖ weights — defaults are the literal values in spec.md §4.3.
	v.SetDefault("WEIGHT_AO_UNAVAILABILITY", 200000)
	v.SetDefault("WEIGHT_AO_BELOW_IDEAL_MINUS_2", 140000)
	v.SetDefault("WEIGHT_AO_ABOVE_IDEAL_PLUS_2", 120000)
	v.SetDefault("WEIGHT_AO_ZERO_ASSIGNMENTS", 80000)
	v.SetDefault("WEIGHT_AO_UNAVAILABILITY_TIE", 1000)
	v.SetDefault("WEIGHT_AO_THREE_CONSECUTIVE_DAYS", 7000)
	v.SetDefault("WEIGHT_AO_SOFT_IDEAL_DEVIATION", 4000)
	v.SetDefault("WEIGHT_AO_HISTORY_FAIRNESS", 3000)
	v.SetDefault("WEIGHT_AO_DUTY_TYPE_FAIRNESS", 1000)
	v.SetDefault("WEIGHT_AO_NIGHT_FAIRNESS", 1000)
	v.SetDefault("WEIGHT_AO_WEEKEND_SLOT_FAIRNESS", 50)
	v.SetDefault("WEIGHT_AO_WEEKLY_CLUSTERING", 100)
	v.SetDefault("WEIGHT_AO_TWO_SHIFTS_SAME_DAY", 100)
	v.SetDefault("WEIGHT_AO_CONSECUTIVE_NIGHT", 100)
	v.SetDefault("WEIGHT_AO_DISLIKES_WEEKEND", 10)
	v.SetDefault("WEIGHT_AO_LIKES_NIGHT", -5)
	v.SetDefault("WEIGHT_AO_LEXICOGRAPHIC_TIEBREAK", 1)

	// NA weights — defaults are the literal values in spec.md §4.3.
	v.SetDefault("WEIGHT_NA_UNAVAILABILITY", 200000)
	v.SetDefault("WEIGHT_NA_ABOVE_IDEAL_PLUS_2", 120000)
	v.SetDefault("WEIGHT_NA_THREE_CONSECUTIVE_DAYS", 7000)
	v.SetDefault("WEIGHT_NA_SEGMENT_FAIRNESS", 1000)
	v.SetDefault("WEIGHT_NA_HISTORY_FAIRNESS", 3000)
	v.SetDefault("WEIGHT_NA_WEEKLY_CLUSTERING", 100)
	v.SetDefault("WEIGHT_NA_BOTH_SEGMENTS_SAME_DAY", 100)
	v.SetDefault("WEIGHT_NA_LIKES_MORNING_MATCHED", -5)
	v.SetDefault("WEIGHT_NA_LIKES_EVENING_MATCHED", -5)
	v.SetDefault("WEIGHT_NA_LEXICOGRAPHIC_TIEBREAK", 1)
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
