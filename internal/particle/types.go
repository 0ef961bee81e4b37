// Package particle reads PopCap-style particle XML files.
//
// These files contain one or more top-level <Emitter> elements whose
// attributes are strings in a small value language (fixed values, ranges,
// keyframes). The pkg/config package converts an emitter into particle
// settings.
package particle

// ParticleConfig represents the root structure of a particle effect configuration.
// A single particle effect may contain multiple emitters working together.
type ParticleConfig struct {
	Emitters []EmitterConfig `xml:"Emitter"`
}

// Emitter returns the emitter with the given name.
func (c *ParticleConfig) Emitter(name string) (*EmitterConfig, bool) {
	for i := range c.Emitters {
		if c.Emitters[i].Name == name {
			return &c.Emitters[i], true
		}
	}
	return nil, false
}

// EmitterConfig represents a single particle emitter configuration.
//
// Fields keep the original XML strings; use ParseValue to read them.
// Units follow the file format: durations in centiseconds, angles in
// degrees clockwise on screen (0 = right, 90 = down), speeds in pixels per second.
type EmitterConfig struct {
	// Name is the unique identifier for this emitter
	Name string `xml:"Name"`

	// Spawn properties (控制粒子发射)
	SpawnRate        string `xml:"SpawnRate,omitempty"`        // Particles spawned per second
	SpawnMinActive   string `xml:"SpawnMinActive,omitempty"`   // Burst size when SpawnRate is 0
	SpawnMaxLaunched string `xml:"SpawnMaxLaunched,omitempty"` // Total particles to launch

	// Particle properties (粒子视觉属性)
	ParticleDuration  string `xml:"ParticleDuration,omitempty"`  // Lifetime (centiseconds)
	ParticleAlpha     string `xml:"ParticleAlpha,omitempty"`     // Transparency (0-1)
	ParticleScale     string `xml:"ParticleScale,omitempty"`     // Size multiplier
	ParticleSpinSpeed string `xml:"ParticleSpinSpeed,omitempty"` // Rotation speed (degrees/sec)
	ParticleRed       string `xml:"ParticleRed,omitempty"`       // Red channel (0-1)
	ParticleGreen     string `xml:"ParticleGreen,omitempty"`     // Green channel (0-1)
	ParticleBlue      string `xml:"ParticleBlue,omitempty"`      // Blue channel (0-1)

	// Launch properties (发射参数)
	LaunchSpeed     string `xml:"LaunchSpeed,omitempty"`     // Initial velocity
	LaunchAngle     string `xml:"LaunchAngle,omitempty"`     // Launch direction (degrees)
	AlignLaunchSpin string `xml:"AlignLaunchSpin,omitempty"` // Rotation follows motion (0 or 1)

	// Emitter properties (发射器配置)
	EmitterType    string `xml:"EmitterType,omitempty"`    // "Circle", "Box", "BoxPath"
	EmitterBoxX    string `xml:"EmitterBoxX,omitempty"`    // Spawn area width
	EmitterBoxY    string `xml:"EmitterBoxY,omitempty"`    // Spawn area height
	EmitterRadius  string `xml:"EmitterRadius,omitempty"`  // Spawn radius (for circular emitters)
	EmitterOffsetX string `xml:"EmitterOffsetX,omitempty"` // Horizontal offset from emitter position
	EmitterOffsetY string `xml:"EmitterOffsetY,omitempty"` // Vertical offset from emitter position

	// System properties (系统级设置)
	SystemDuration string `xml:"SystemDuration,omitempty"` // Total effect duration (centiseconds)

	// Rendering properties (渲染模式)
	Image    string `xml:"Image,omitempty"`    // Resource ID of the particle texture
	Additive string `xml:"Additive,omitempty"` // Additive blending (0 or 1)

	// Fields (力场配置)
	Fields []Field `xml:"Field"` // Force fields affecting particles
}

// Field represents a force field that affects particle behavior.
type Field struct {
	FieldType string `xml:"FieldType"`   // "Acceleration" or "Friction"
	X         string `xml:"X,omitempty"` // Horizontal component
	Y         string `xml:"Y,omitempty"` // Vertical component
}

// Field types understood by the converter.
const (
	FieldAcceleration = "Acceleration"
	FieldFriction     = "Friction"
)

// Field returns the first field of the given type.
func (e *EmitterConfig) Field(fieldType string) (Field, bool) {
	for _, f := range e.Fields {
		if f.FieldType == fieldType {
			return f, true
		}
	}
	return Field{}, false
}

// Flag reports whether a "0"/"1" attribute is set.
func Flag(s string) bool {
	return s == "1" || s == "true"
}
