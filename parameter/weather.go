package parameter

import "time"

// RainPreset tunes one rain intensity
// Counts are desktop/mobile, speeds and lengths in logical units (view height 100)
type RainPreset struct {
	Count       int
	MobileCount int
	SpeedMin    float64
	SpeedMax    float64
	Length      float64
	Opacity     float64
	Slant       float64 // horizontal units per vertical unit

	Lightning    bool
	LightningMin time.Duration
	LightningMax time.Duration
}

// Rain presets; a zero count with lightning enabled renders strikes only
var (
	RainDrizzle = RainPreset{Count: 60, MobileCount: 30, SpeedMin: 40, SpeedMax: 60, Length: 1.5, Opacity: 0.35, Slant: 0.05}
	RainLight   = RainPreset{Count: 120, MobileCount: 60, SpeedMin: 60, SpeedMax: 90, Length: 2.5, Opacity: 0.45, Slant: 0.08}
	RainDefault = RainPreset{Count: 220, MobileCount: 110, SpeedMin: 80, SpeedMax: 120, Length: 3.5, Opacity: 0.55, Slant: 0.1}
	RainHeavy   = RainPreset{Count: 400, MobileCount: 180, SpeedMin: 110, SpeedMax: 160, Length: 5, Opacity: 0.65, Slant: 0.15}
	RainStorm   = RainPreset{
		Count: 500, MobileCount: 220, SpeedMin: 130, SpeedMax: 180, Length: 6, Opacity: 0.7, Slant: 0.3,
		Lightning: true, LightningMin: 4 * time.Second, LightningMax: 10 * time.Second,
	}
	RainThunder = RainPreset{
		Count: 0, MobileCount: 0, Opacity: 0.6,
		Lightning: true, LightningMin: 3 * time.Second, LightningMax: 8 * time.Second,
	}
)

// SnowPreset tunes one snow intensity
type SnowPreset struct {
	Count       int
	MobileCount int
	SpeedMin    float64
	SpeedMax    float64
	SwayAmp     float64
	SwayFreq    float64 // radians per second
	Drift       float64 // constant wind, logical units per second
	Opacity     float64
}

var (
	SnowLight    = SnowPreset{Count: 80, MobileCount: 40, SpeedMin: 4, SpeedMax: 8, SwayAmp: 1.5, SwayFreq: 0.8, Opacity: 0.6}
	SnowDefault  = SnowPreset{Count: 160, MobileCount: 80, SpeedMin: 6, SpeedMax: 12, SwayAmp: 2, SwayFreq: 1.0, Drift: 1, Opacity: 0.7}
	SnowHeavy    = SnowPreset{Count: 300, MobileCount: 140, SpeedMin: 8, SpeedMax: 16, SwayAmp: 2.5, SwayFreq: 1.2, Drift: 2, Opacity: 0.8}
	SnowBlizzard = SnowPreset{Count: 450, MobileCount: 200, SpeedMin: 14, SpeedMax: 26, SwayAmp: 3, SwayFreq: 1.6, Drift: 25, Opacity: 0.85}
)

// FogPreset tunes one fog density
type FogPreset struct {
	Layers  int
	Opacity float64
	Scale   float64 // noise cells per logical unit
	Drift   float64 // logical units per second for the nearest layer
}

var (
	FogLight   = FogPreset{Layers: 2, Opacity: 0.25, Scale: 0.035, Drift: 1.2}
	FogDefault = FogPreset{Layers: 3, Opacity: 0.4, Scale: 0.04, Drift: 1.6}
	FogDense   = FogPreset{Layers: 3, Opacity: 0.6, Scale: 0.05, Drift: 2.0}
)

// Lightning strike shaping
const (
	LightningIntervalMin = 2 * time.Second
	LightningIntervalMax = 6 * time.Second

	// BoltLifetime is how long a bolt path stays visible
	BoltLifetime = 250 * time.Millisecond
	// FlashDecay is the e-folding time of the full-view brightness flash
	FlashDecay = 350 * time.Millisecond
	// FlashPeak is the maximum flash opacity before the effect opacity is applied
	FlashPeak = 0.6
	// DoubleStrikeChance adds a weaker restrike shortly after the first
	DoubleStrikeChance = 0.35
	DoubleStrikeDelay  = 120 * time.Millisecond

	// BoltSegmentDensity is logical units per fractal segment
	BoltSegmentDensity = 4.0
	BoltMinSegments    = 6
	BoltJitterScale    = 0.35
	BoltBranchChance   = 0.25
)

// Clouds
const (
	CloudLayers       = 3
	CloudOpacity      = 0.5
	CloudScale        = 0.03
	CloudDrift        = 2.5
	CloudCoverage     = 0.45 // noise threshold, lower is more overcast
	CloudBandFraction = 0.45 // clouds occupy the top of the view
)

// Sun beams
const (
	SunBeamCount       = 5
	SunBeamMobileCount = 3
	SunBeamOpacity     = 0.22
	SunBeamWidthMin    = 6.0
	SunBeamWidthMax    = 16.0
	SunBeamSwayPeriod  = 14 * time.Second
	SunBeamPulsePeriod = 6 * time.Second
	SunGlareOpacity    = 0.18
	SunGlareRadius     = 0.9 // fraction of view height
)

// Hail
const (
	HailCount       = 140
	HailMobileCount = 70
	HailSpeedMin    = 140.0
	HailSpeedMax    = 200.0
	HailOpacity     = 0.85
	HailBounceTime  = 0.35 // seconds a stone bounces after hitting the ground
	HailBounceRise  = 4.0
)

// Wind
const (
	WindStreakCount       = 70
	WindStreakMobileCount = 35
	WindSpeedMin          = 60.0
	WindSpeedMax          = 110.0
	WindStreakLength      = 8.0
	WindDustCount         = 90
	WindDustMobileCount   = 40
	WindGustPeriod        = 7 * time.Second
	WindOpacity           = 0.45
)

// Acid rain
const (
	AcidRainCount       = 260
	AcidRainMobileCount = 120
	AcidRainSpeedMin    = 70.0
	AcidRainSpeedMax    = 110.0
	AcidRainLength      = 3.0
	AcidRainOpacity     = 0.6
	AcidSplashLifetime  = 0.3 // seconds
	AcidHazeOpacity     = 0.12
)

// Digital rain
const (
	DigitalRainSpeedMin  = 12.0
	DigitalRainSpeedMax  = 38.0
	DigitalRainTrailMin  = 6
	DigitalRainTrailMax  = 22
	DigitalRainSwayRate  = 2.5 // glyph swaps per second per column
	DigitalRainOpacity   = 0.9
	DigitalRainColumnGap = 1 // cells between columns on mobile
)

// Snow accumulation timing shared by ambient bands and surface caps
const (
	AccumulateDuration = 20 * time.Second
	AccumulateHold     = 10 * time.Second
	AccumulateFade     = 8 * time.Second

	AmbientBandHeight  = 4.0 // logical units
	AmbientBandOpacity = 0.45
	SurfaceCapOpacity  = 0.85
	SurfaceCapNoise    = 0.35 // thickness modulation
)
