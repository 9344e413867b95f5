package audio

import "sync"

// soundCache bakes each thunder buffer once at unity gain; buffers are shared read-only
type soundCache struct {
	bake [soundTypeCount]func() floatBuffer
}

func newSoundCache() *soundCache {
	c := &soundCache{}
	for i := range c.bake {
		st := SoundType(i)
		c.bake[i] = sync.OnceValue(func() floatBuffer { return generateSound(st) })
	}
	return c
}

// get returns the baked buffer, synthesizing it on first use
func (c *soundCache) get(st SoundType) floatBuffer {
	if st < 0 || st >= soundTypeCount {
		return nil
	}
	return c.bake[st]()
}

// preload bakes every sound so the first strike plays without a synthesis stall
func (c *soundCache) preload() {
	for st := range soundTypeCount {
		c.get(st)
	}
}
