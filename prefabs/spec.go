package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const TableSpecFile = "table.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// TableSpec is the tuning for one table: geometry ratios, materials, rack
// layout and shot feel. Geometry is expressed relative to table width so the
// whole layout scales with the window.
type TableSpec struct {
	Name        string         `yaml:"name"`
	AspectRatio float64        `yaml:"aspect_ratio"`
	FeltColor   *YAMLColor     `yaml:"felt_color"`
	Wall        WallSpec       `yaml:"wall"`
	Pocket      PocketSpec     `yaml:"pocket"`
	Ball        BallSpec       `yaml:"ball"`
	CueBall     CueBallSpec    `yaml:"cue_ball"`
	Rack        RackSpec       `yaml:"rack"`
	Shot        ShotSpec       `yaml:"shot"`
	Aim         LineRenderSpec `yaml:"aim"`
	Physics     PhysicsSpec    `yaml:"physics"`
}

type WallSpec struct {
	Thickness  float64    `yaml:"thickness"`
	Elasticity float64    `yaml:"elasticity"`
	Friction   float64    `yaml:"friction"`
	Color      *YAMLColor `yaml:"color"`
}

// PocketSpec places pockets in units of the pocket radius: corners are inset
// by CornerInset on both axes, side pockets by SideInset from the long rail.
type PocketSpec struct {
	RadiusRatio float64    `yaml:"radius_ratio"`
	CornerInset float64    `yaml:"corner_inset"`
	SideInset   float64    `yaml:"side_inset"`
	Color       *YAMLColor `yaml:"color"`
}

type BallSpec struct {
	RadiusRatio float64 `yaml:"radius_ratio"`
	Mass        float64 `yaml:"mass"`
	Elasticity  float64 `yaml:"elasticity"`
	Friction    float64 `yaml:"friction"`
	AirFriction float64 `yaml:"air_friction"`
}

type CueBallSpec struct {
	SpawnX float64    `yaml:"spawn_x"`
	SpawnY float64    `yaml:"spawn_y"`
	Color  *YAMLColor `yaml:"color"`
}

// RackSpec positions the triangle. Spacings are in units of ball radius.
type RackSpec struct {
	ApexX         float64      `yaml:"apex_x"`
	ApexY         float64      `yaml:"apex_y"`
	Rows          int          `yaml:"rows"`
	RowSpacing    float64      `yaml:"row_spacing"`
	ColumnSpacing float64      `yaml:"column_spacing"`
	Colors        []*YAMLColor `yaml:"colors"`
}

type ShotSpec struct {
	MotionThreshold float64 `yaml:"motion_threshold"`
	MinDrag         float64 `yaml:"min_drag"`
	ForceDivisor    float64 `yaml:"force_divisor"`
	MaxForce        float64 `yaml:"max_force"`
	ImpulseScale    float64 `yaml:"impulse_scale"`
}

type PhysicsSpec struct {
	Substeps   int `yaml:"substeps"`
	Iterations int `yaml:"iterations"`
}

type LineRenderSpec struct {
	Width     float32    `yaml:"width"`
	Color     *YAMLColor `yaml:"color"`
	AntiAlias bool       `yaml:"anti_alias"`
}

func LoadTableSpec() (*TableSpec, error) {
	spec, err := LoadSpec[TableSpec](TableSpecFile)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", TableSpecFile, err)
	}
	return &spec, nil
}

// Validate rejects values that would produce degenerate geometry or a rack
// whose balls start interpenetrated.
func (s *TableSpec) Validate() error {
	var errs []error
	if s.AspectRatio <= 0 {
		errs = append(errs, errors.New("aspect_ratio must be positive"))
	}
	if s.Wall.Thickness <= 0 {
		errs = append(errs, errors.New("wall.thickness must be positive"))
	}
	if s.Ball.RadiusRatio <= 0 {
		errs = append(errs, errors.New("ball.radius_ratio must be positive"))
	}
	if s.Pocket.RadiusRatio <= 0 {
		errs = append(errs, errors.New("pocket.radius_ratio must be positive"))
	}
	if s.Rack.Rows <= 0 {
		errs = append(errs, errors.New("rack.rows must be positive"))
	}
	if s.Rack.ColumnSpacing <= 2 {
		errs = append(errs, errors.New("rack.column_spacing must exceed 2 ball radii"))
	}
	if s.Rack.RowSpacing <= 0 {
		errs = append(errs, errors.New("rack.row_spacing must be positive"))
	}
	if len(s.Rack.Colors) == 0 {
		errs = append(errs, errors.New("rack.colors must not be empty"))
	}
	if s.Shot.ForceDivisor <= 0 {
		errs = append(errs, errors.New("shot.force_divisor must be positive"))
	}
	if s.Shot.MaxForce <= 0 {
		errs = append(errs, errors.New("shot.max_force must be positive"))
	}
	if s.Physics.Substeps <= 0 {
		errs = append(errs, errors.New("physics.substeps must be positive"))
	}
	return errors.Join(errs...)
}

// ColorOr returns the parsed color, or fallback when the field was omitted.
func (c *YAMLColor) ColorOr(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
