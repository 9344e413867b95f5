package effect

import (
	"github.com/lixenwraith/weatherfx/parameter"
)

// LightningEffect is strikes alone, with no precipitation
// It has no resize hook; the renderer rebuilds it so bolts match the new view
type LightningEffect struct {
	base
	strikes *strikes
}

// NewLightning builds the standalone lightning effect
func NewLightning(ctx BuildContext) *LightningEffect {
	l := &LightningEffect{base: newBase("lightning", ctx)}
	l.strikes = newStrikes(ctx, parameter.LightningIntervalMin, parameter.LightningIntervalMax, streamStrikes)
	l.group.Add(l.strikes.group)
	return l
}

// StrikeCount returns strikes fired since build, restrikes included
func (l *LightningEffect) StrikeCount() int {
	return l.strikes.strikeCount
}

// Update advances strike timers and fades
func (l *LightningEffect) Update(dt, elapsed float64) {
	if l.disposed {
		return
	}
	l.strikes.update(dt, elapsed, l.opacity)
}

// Dispose releases the bolt and flash
func (l *LightningEffect) Dispose() {
	l.release()
}
