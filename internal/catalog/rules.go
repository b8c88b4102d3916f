package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Rules - игровые константы. Читаются из YAML, переменные окружения
// имеют приоритет.
type Rules struct {
	MaxPhotosPerDay     int     `yaml:"max_photos_per_day" env:"RULES_MAX_PHOTOS_PER_DAY" env-default:"5"`
	TotalEvidencePieces int     `yaml:"total_evidence_pieces" env:"RULES_TOTAL_EVIDENCE_PIECES" env-default:"30"`
	GaslightingPenalty  float64 `yaml:"gaslighting_penalty" env:"RULES_GASLIGHTING_PENALTY" env-default:"5"`
	MouseSensitivityX   float64 `yaml:"mouse_sensitivity_x" env:"RULES_MOUSE_SENSITIVITY_X" env-default:"3"`
	MouseSensitivityY   float64 `yaml:"mouse_sensitivity_y" env:"RULES_MOUSE_SENSITIVITY_Y" env-default:"2"`
	InvertVertical      bool    `yaml:"invert_vertical" env:"RULES_INVERT_VERTICAL" env-default:"false"`
	ZoomDistance        float64 `yaml:"zoom_distance" env:"RULES_ZOOM_DISTANCE" env-default:"1.5"`

	CameraTransition time.Duration `yaml:"camera_transition" env:"RULES_CAMERA_TRANSITION" env-default:"400ms"`
	ZoomDuration     time.Duration `yaml:"zoom_duration" env:"RULES_ZOOM_DURATION" env-default:"500ms"`
	FadeDuration     time.Duration `yaml:"fade_duration" env:"RULES_FADE_DURATION" env-default:"1s"`
	MinLoadingTime   time.Duration `yaml:"min_loading_time" env:"RULES_MIN_LOADING_TIME" env-default:"500ms"`
}

// LoadRules читает правила из файла path. Если файла нет, используются
// переменные окружения и значения по умолчанию.
func LoadRules(path string) (Rules, error) {
	var r Rules
	if path != "" {
		err := cleanenv.ReadConfig(path, &r)
		if err == nil {
			return r, r.validate()
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Rules{}, fmt.Errorf("failed to read rules %s: %w", path, err)
		}
	}
	if err := cleanenv.ReadEnv(&r); err != nil {
		return Rules{}, fmt.Errorf("failed to read rules from env: %w", err)
	}
	return r, r.validate()
}

// DefaultRules - правила без файла и переменных окружения.
func DefaultRules() Rules {
	return Rules{
		MaxPhotosPerDay:     5,
		TotalEvidencePieces: 30,
		GaslightingPenalty:  5,
		MouseSensitivityX:   3,
		MouseSensitivityY:   2,
		ZoomDistance:        1.5,
		CameraTransition:    400 * time.Millisecond,
		ZoomDuration:        500 * time.Millisecond,
		FadeDuration:        time.Second,
		MinLoadingTime:      500 * time.Millisecond,
	}
}

func (r Rules) validate() error {
	if r.MaxPhotosPerDay <= 0 {
		return fmt.Errorf("max_photos_per_day must be positive, got %d", r.MaxPhotosPerDay)
	}
	if r.TotalEvidencePieces <= 0 {
		return fmt.Errorf("total_evidence_pieces must be positive, got %d", r.TotalEvidencePieces)
	}
	if r.GaslightingPenalty < 0 {
		return fmt.Errorf("gaslighting_penalty must not be negative, got %g", r.GaslightingPenalty)
	}
	return nil
}
