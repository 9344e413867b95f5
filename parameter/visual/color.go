package visual

import (
	"github.com/lixenwraith/weatherfx/render"
)

// Weather palette
var (
	RgbRain       = render.RGB{R: 150, G: 180, B: 215}
	RgbRainStorm  = render.RGB{R: 170, G: 190, B: 220}
	RgbSnow       = render.RGB{R: 240, G: 245, B: 255}
	RgbSnowShadow = render.RGB{R: 200, G: 215, B: 235}
	RgbFog        = render.RGB{R: 205, G: 210, B: 218}
	RgbFogFar     = render.RGB{R: 170, G: 178, B: 190}
	RgbCloud      = render.RGB{R: 120, G: 126, B: 138}
	RgbCloudLit   = render.RGB{R: 210, G: 214, B: 222}
	RgbSunBeam    = render.RGB{R: 255, G: 236, B: 170}
	RgbHail       = render.RGB{R: 225, G: 235, B: 245}
	RgbWind       = render.RGB{R: 200, G: 200, B: 190}
	RgbDust       = render.RGB{R: 190, G: 160, B: 110}
	RgbAcid       = render.RGB{R: 130, G: 255, B: 60}
	RgbAcidHaze   = render.RGB{R: 90, G: 140, B: 30}

	// Lightning: white core over a blue glow
	RgbBoltCore  = render.RGB{R: 255, G: 255, B: 255}
	RgbBoltGlow  = render.RGB{R: 120, G: 140, B: 255}
	RgbFlash     = render.RGB{R: 235, G: 240, B: 255}
	RgbMatrix    = render.RGB{R: 0, G: 255, B: 70}
	RgbMatrixHot = render.RGB{R: 220, G: 255, B: 220}
)
