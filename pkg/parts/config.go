package parts

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full parameter set shared by all builders. It is passed by
// value; builders never modify it. All lengths are in mm, angles in degrees.
type Config struct {
	// Shared
	Diameter             float64 `json:"diameter" validate:"gt=0"`
	PipeRadius           float64 `json:"pipe_radius" validate:"gt=0"`
	Pitch                float64 `json:"pitch" validate:"gt=0,ltfield=Diameter"`
	PreviewFix           float64 `json:"preview_fix" validate:"gtfield=UnprintableThickness"`
	UnprintableThickness float64 `json:"unprintable_thickness" validate:"gt=0"`

	// Fastener
	BoltLength   float64 `json:"bolt_length" validate:"gt=0"`
	NutLength    float64 `json:"nut_length" validate:"gtfield=NutChamferHeight"`
	WasherHeight float64 `json:"washer_height" validate:"gt=0"`
	WasherRatio  float64 `json:"washer_ratio" validate:"gt=1"`
	BoreDiameter float64 `json:"bore_diameter" validate:"gt=0,ltfield=Diameter"`
	ThreadSlop   float64 `json:"thread_slop" validate:"gte=0"`
	ThreadFa     float64 `json:"thread_fa" validate:"gt=0"`
	ThreadFs     float64 `json:"thread_fs" validate:"gt=0"`
	BoreSegments int     `json:"bore_segments" validate:"gte=3"`

	// Nut
	TorxSize         int     `json:"torx_size" validate:"oneof=6 8 10 15 20 25 30 40 45 50 55 60 70 80"`
	TorxFa           float64 `json:"torx_fa" validate:"gt=0"`
	TorxFs           float64 `json:"torx_fs" validate:"gt=0"`
	NutChamferHeight float64 `json:"nut_chamfer_height" validate:"gt=0"`
	NutFlangeHeight  float64 `json:"nut_flange_height" validate:"gt=0"`
	NutSkirtHeight   float64 `json:"nut_skirt_height" validate:"gt=0"`

	// Cradle
	PlateRadius        float64 `json:"plate_radius" validate:"gtfield=PipeRadius"`
	CradleBaseHeight   float64 `json:"cradle_base_height" validate:"gt=0"`
	CradleCollarHeight float64 `json:"cradle_collar_height" validate:"gt=0"`
	RodLength          float64 `json:"rod_length" validate:"gt=0"`
	RodGap             float64 `json:"rod_gap" validate:"gte=0"`

	// Joint
	TopRadius       float64 `json:"top_radius" validate:"gt=0,ltefield=PlateRadius"`
	RotateHeight    float64 `json:"rotate_height" validate:"gt=0"`
	GapHeight       float64 `json:"gap_height" validate:"gt=0"`
	PocketClearance float64 `json:"pocket_clearance" validate:"gte=0"`
	CollarWall      float64 `json:"collar_wall" validate:"gt=0"`
	BoreSlopWide    float64 `json:"bore_slop_wide" validate:"gtfield=BoreSlopNarrow"`
	BoreSlopNarrow  float64 `json:"bore_slop_narrow" validate:"gte=0"`
}

// DefaultConfig returns the shipped parameter set.
func DefaultConfig() Config {
	return Config{
		Diameter:             15,
		PipeRadius:           10,
		Pitch:                2,
		PreviewFix:           0.05,
		UnprintableThickness: 0.01,

		BoltLength:   120,
		NutLength:    15,
		WasherHeight: 4,
		WasherRatio:  1.8,
		BoreDiameter: 3.5,
		ThreadSlop:   0.3,
		ThreadFa:     1,
		ThreadFs:     0.5,
		BoreSegments: 30,

		TorxSize:         60,
		TorxFa:           1,
		TorxFs:           1,
		NutChamferHeight: 3,
		NutFlangeHeight:  2,
		NutSkirtHeight:   5,

		PlateRadius:        37.5,
		CradleBaseHeight:   2,
		CradleCollarHeight: 12,
		RodLength:          75,
		RodGap:             5,

		TopRadius:       32.5,
		RotateHeight:    2,
		GapHeight:       2,
		PocketClearance: 0.2,
		CollarWall:      2,
		BoreSlopWide:    0.8,
		BoreSlopNarrow:  0.1,
	}
}

// WasherRadius is the outer radius of the washer and the nut flange.
func (c Config) WasherRadius() float64 { return c.Diameter / 2 * c.WasherRatio }

// RodOffset is the distance from the fastener axis to each rod axis.
func (c Config) RodOffset() float64 { return c.Diameter + c.RodGap }

// RotationWasherHeight is the height of the joint's bottom washer.
func (c Config) RotationWasherHeight() float64 {
	return c.RotateHeight + c.PipeRadius - c.GapHeight/2
}

// TopWasherHeight is the height of the joint's top washer.
func (c Config) TopWasherHeight() float64 {
	return c.PipeRadius + c.RotateHeight - c.GapHeight/2
}

// SmallestCutFeature returns the thinnest dimension any subtraction relies
// on. PreviewFix must stay below it.
func (c Config) SmallestCutFeature() float64 {
	return min(
		c.WasherHeight,
		c.NutLength-c.NutChamferHeight,
		c.NutChamferHeight/2,
		c.NutFlangeHeight,
		c.CradleBaseHeight,
		c.RotateHeight,
		c.GapHeight,
		(c.Diameter-c.BoreDiameter)/2,
	)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks field constraints and the cross-field rules the builders
// depend on. Problems are reported together, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	var msgs []string
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("parts: %w: %v", ErrInvalidConfig, err)
		}
		for _, fe := range verrs {
			msgs = append(msgs, formatFieldError(fe))
		}
	}

	if pf, s := c.PreviewFix, c.SmallestCutFeature(); pf >= s {
		msgs = append(msgs, fmt.Sprintf("preview_fix %g must be smaller than the smallest cut feature %g", pf, s))
	}
	if c.RotationWasherHeight() <= 0 || c.TopWasherHeight() <= 0 {
		msgs = append(msgs, fmt.Sprintf("gap_height %g leaves no joint washer material", c.GapHeight))
	}
	if c.Diameter/2+c.BoreSlopWide >= c.TopRadius {
		msgs = append(msgs, "bore_slop_wide cuts through the joint top washer")
	}

	if len(msgs) > 0 {
		return fmt.Errorf("parts: %w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}
	return nil
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, snake(e.Param()))
	case "ltfield":
		return fmt.Sprintf("%s must be less than %s", field, snake(e.Param()))
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", field, snake(e.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// snake maps a Go field name to its json name for messages.
func snake(goName string) string {
	if f, ok := reflect.TypeOf(Config{}).FieldByName(goName); ok {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	}
	return goName
}
