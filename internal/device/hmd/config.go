package hmd

import (
	"math"
	"os"
	"path"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Galtar27/PSMoveService/internal/tracking"
)

// ConfigVersion is the schema version of the persisted HMD configuration.
// A loaded file with any other version is discarded wholesale in favor of
// the compiled-in defaults; there is no field-by-field migration.
const ConfigVersion = 1

const (
	// ±4g accelerometer range over a signed 16-bit sample, in g per LSB.
	defaultAccelGain = 1.0 / 8192.0
	// ±2000dps gyro range (16.4 LSB per deg/s), in rad/s per LSB.
	defaultGyroGain = math.Pi / (180.0 * 16.4)

	defaultAccelVariance = 3.5e-4
	defaultGyroVariance  = 3.5e-4
	defaultGyroDrift     = 7.0e-5

	defaultMinQualityScreenArea = 150.0
	defaultMaxQualityScreenArea = 22500.0
	defaultMaxVelocity          = 1.0

	defaultMaxPollFailureCount = 100
)

type SensorCalibrationOpt struct {
	Gain     float32 `yaml:"gain"`
	Variance float32 `yaml:"variance"`
}

type GyroCalibrationOpt struct {
	Gain     float32 `yaml:"gain"`
	Variance float32 `yaml:"variance"`
	Drift    float32 `yaml:"drift"`
}

type GravityOpt struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

type CalibrationOpt struct {
	Accel           SensorCalibrationOpt `yaml:"accel"`
	Gyro            GyroCalibrationOpt   `yaml:"gyro"`
	IdentityGravity GravityOpt           `yaml:"identity_gravity"`
}

type QualityOpt struct {
	MinQualityScreenArea float32 `yaml:"min_quality_screen_area"`
	MaxQualityScreenArea float32 `yaml:"max_quality_screen_area"`
}

type PositionFilterOpt struct {
	MinQualityScreenArea float32 `yaml:"min_quality_screen_area"`
	MaxQualityScreenArea float32 `yaml:"max_quality_screen_area"`
	MaxVelocity          float32 `yaml:"max_velocity"`
}

// Config holds the calibration constants and tunables of one HMD instance.
// Loaded once at open time and never mutated mid-poll.
type Config struct {
	Version             int               `yaml:"version"`
	IsValid             bool              `yaml:"is_valid"`
	Calibration         CalibrationOpt    `yaml:"calibration"`
	OrientationFilter   QualityOpt        `yaml:"orientation_filter"`
	PositionFilter      PositionFilterOpt `yaml:"position_filter"`
	PredictionTime      float32           `yaml:"prediction_time"`
	MaxPollFailureCount int               `yaml:"max_poll_failure_count"`
	TrackingColor       string            `yaml:"tracking_color_id"`

	path string
}

// DefaultConfig returns the compiled-in configuration, persisted at path.
func DefaultConfig(configPath string) *Config {
	return &Config{
		Version: ConfigVersion,
		IsValid: false,
		Calibration: CalibrationOpt{
			Accel: SensorCalibrationOpt{
				Gain:     defaultAccelGain,
				Variance: defaultAccelVariance,
			},
			Gyro: GyroCalibrationOpt{
				Gain:     defaultGyroGain,
				Variance: defaultGyroVariance,
				Drift:    defaultGyroDrift,
			},
			IdentityGravity: GravityOpt{X: 0, Y: 1, Z: 0},
		},
		OrientationFilter: QualityOpt{
			MinQualityScreenArea: defaultMinQualityScreenArea,
			MaxQualityScreenArea: defaultMaxQualityScreenArea,
		},
		PositionFilter: PositionFilterOpt{
			MinQualityScreenArea: defaultMinQualityScreenArea,
			MaxQualityScreenArea: defaultMaxQualityScreenArea,
			MaxVelocity:          defaultMaxVelocity,
		},
		PredictionTime:      0,
		MaxPollFailureCount: defaultMaxPollFailureCount,
		TrackingColor:       tracking.ColorName(tracking.ColorBlue),
		path:                configPath,
	}
}

// TrackingColorID resolves the configured tracking color name. Unknown
// names fall back to blue.
func (c *Config) TrackingColorID() tracking.ColorID {
	if id, ok := tracking.ColorFromName(c.TrackingColor); ok {
		return id
	}
	return tracking.ColorBlue
}

// Load reads the persisted configuration. A missing file keeps the
// defaults. A version mismatch discards the file in favor of defaults with
// a warning. On a version match every field falls back to its compiled-in
// default individually, so a partially edited file degrades field by
// field.
func (c *Config) Load() error {
	defaults := DefaultConfig(c.path)

	v := viper.New()
	v.SetConfigFile(c.path)
	v.SetConfigType("yaml")
	v.SetDefault("is_valid", defaults.IsValid)
	v.SetDefault("calibration.accel.gain", defaults.Calibration.Accel.Gain)
	v.SetDefault("calibration.accel.variance", defaults.Calibration.Accel.Variance)
	v.SetDefault("calibration.gyro.gain", defaults.Calibration.Gyro.Gain)
	v.SetDefault("calibration.gyro.variance", defaults.Calibration.Gyro.Variance)
	v.SetDefault("calibration.gyro.drift", defaults.Calibration.Gyro.Drift)
	v.SetDefault("calibration.identity_gravity.x", defaults.Calibration.IdentityGravity.X)
	v.SetDefault("calibration.identity_gravity.y", defaults.Calibration.IdentityGravity.Y)
	v.SetDefault("calibration.identity_gravity.z", defaults.Calibration.IdentityGravity.Z)
	v.SetDefault("orientation_filter.min_quality_screen_area", defaults.OrientationFilter.MinQualityScreenArea)
	v.SetDefault("orientation_filter.max_quality_screen_area", defaults.OrientationFilter.MaxQualityScreenArea)
	v.SetDefault("position_filter.min_quality_screen_area", defaults.PositionFilter.MinQualityScreenArea)
	v.SetDefault("position_filter.max_quality_screen_area", defaults.PositionFilter.MaxQualityScreenArea)
	v.SetDefault("position_filter.max_velocity", defaults.PositionFilter.MaxVelocity)
	v.SetDefault("prediction_time", defaults.PredictionTime)
	v.SetDefault("max_poll_failure_count", defaults.MaxPollFailureCount)
	v.SetDefault("tracking_color_id", defaults.TrackingColor)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			*c = *defaults
			return nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			*c = *defaults
			return nil
		}
		return err
	}

	version := v.GetInt("version")
	if version != ConfigVersion {
		log.Warnf("hmd config version %d does not match expected version %d, using defaults", version, ConfigVersion)
		*c = *defaults
		return nil
	}

	c.Version = version
	c.IsValid = v.GetBool("is_valid")
	c.Calibration.Accel.Gain = float32(v.GetFloat64("calibration.accel.gain"))
	c.Calibration.Accel.Variance = float32(v.GetFloat64("calibration.accel.variance"))
	c.Calibration.Gyro.Gain = float32(v.GetFloat64("calibration.gyro.gain"))
	c.Calibration.Gyro.Variance = float32(v.GetFloat64("calibration.gyro.variance"))
	c.Calibration.Gyro.Drift = float32(v.GetFloat64("calibration.gyro.drift"))
	c.Calibration.IdentityGravity.X = float32(v.GetFloat64("calibration.identity_gravity.x"))
	c.Calibration.IdentityGravity.Y = float32(v.GetFloat64("calibration.identity_gravity.y"))
	c.Calibration.IdentityGravity.Z = float32(v.GetFloat64("calibration.identity_gravity.z"))
	c.OrientationFilter.MinQualityScreenArea = float32(v.GetFloat64("orientation_filter.min_quality_screen_area"))
	c.OrientationFilter.MaxQualityScreenArea = float32(v.GetFloat64("orientation_filter.max_quality_screen_area"))
	c.PositionFilter.MinQualityScreenArea = float32(v.GetFloat64("position_filter.min_quality_screen_area"))
	c.PositionFilter.MaxQualityScreenArea = float32(v.GetFloat64("position_filter.max_quality_screen_area"))
	c.PositionFilter.MaxVelocity = float32(v.GetFloat64("position_filter.max_velocity"))
	c.PredictionTime = float32(v.GetFloat64("prediction_time"))
	c.MaxPollFailureCount = v.GetInt("max_poll_failure_count")
	c.TrackingColor = v.GetString("tracking_color_id")
	return nil
}

// Save writes the current version constant and the full field set.
func (c *Config) Save() error {
	c.Version = ConfigVersion

	if err := os.MkdirAll(path.Dir(c.path), 0700); err != nil {
		return err
	}
	buf, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, buf, 0644)
}
