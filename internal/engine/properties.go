package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"scenario-vn-core/internal/sprite"
	"scenario-vn-core/internal/tween"
)

// propKey addresses one tweenable property: either a sprite slot's named
// field/filter, or a global channel's named slot (mix volume, text speed,
// and similar script-wide knobs that aren't attached to any sprite).
type propKey struct {
	isSprite bool
	no       int
	prop     string
	channel  int
}

func (k propKey) name() string {
	if k.isSprite {
		return fmt.Sprintf("sprite:%d:%s", k.no, k.prop)
	}
	return fmt.Sprintf("global:%s:%d", k.prop, k.channel)
}

// queuedTween is a pending property change waiting for the in-flight
// tween on the same key to finish, per the "queued unless override" rule.
type queuedTween struct {
	value    float64
	duration time.Duration
	easing   tween.Easing
}

// properties bridges eval's dynamic-property commands to the shared
// tween set and sprite table. RunScript and Tick run on separate
// goroutines (one drives the script, the other paces wall-clock
// subsystems), so every access here is serialized under mu, and
// WaitOnSpriteProperty/WaitOnGlobalProperty block the calling goroutine
// on cond until Tick's advance call reports the tween done — the same
// lock-guarded handoff internal/ports/cache uses between its loader
// goroutines and the frame-draining main thread.
type properties struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tweens  *tween.Set
	sprites *sprite.Table

	global  map[string]float64
	queue   map[string][]queuedTween
	keyMeta map[string]propKey
}

func newProperties(tweens *tween.Set, sprites *sprite.Table) *properties {
	p := &properties{
		tweens:  tweens,
		sprites: sprites,
		global:  make(map[string]float64),
		queue:   make(map[string][]queuedTween),
		keyMeta: make(map[string]propKey),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

func easingFor(equation int) tween.Easing {
	switch equation {
	case 1:
		return tween.EaseInQuad
	case 2:
		return tween.EaseOutQuad
	case 3:
		return tween.EaseInOutQuad
	default:
		return tween.LinearEasing
	}
}

// spriteFieldGet reads a named sprite property: the fixed placement
// fields by name, or a filter property (blur, sepia, warp_speed, and
// similar) out of Extra.
func spriteFieldGet(e sprite.Entry, prop string) float64 {
	switch strings.ToLower(prop) {
	case "x":
		return e.X
	case "y":
		return e.Y
	case "scalex":
		return e.ScaleX
	case "scaley":
		return e.ScaleY
	case "opacity":
		return e.Opacity
	case "rotation":
		return e.Rotation
	default:
		if e.Extra == nil {
			return 0
		}
		return e.Extra[prop]
	}
}

func spriteFieldSet(e *sprite.Entry, prop string, value float64) {
	switch strings.ToLower(prop) {
	case "x":
		e.X = value
	case "y":
		e.Y = value
	case "scalex":
		e.ScaleX = value
	case "scaley":
		e.ScaleY = value
	case "opacity":
		e.Opacity = value
	case "rotation":
		e.Rotation = value
	default:
		if e.Extra == nil {
			e.Extra = make(map[string]float64)
		}
		e.Extra[prop] = value
	}
}

func (p *properties) apply(k propKey, value float64, duration time.Duration, equation int, override bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := k.name()
	p.keyMeta[name] = k
	if override {
		p.queue[name] = nil
	} else if p.tweens.Pending(name) {
		p.queue[name] = append(p.queue[name], queuedTween{value: value, duration: duration, easing: easingFor(equation)})
		return
	}
	p.tweens.Start(name, value, duration, easingFor(equation))
}

// SetSpriteProperty implements eval.PropertyHost.
func (p *properties) SetSpriteProperty(no int, prop string, value float64, duration time.Duration, equation int, override bool) error {
	p.apply(propKey{isSprite: true, no: no, prop: prop}, value, duration, equation, override)
	return nil
}

// SetGlobalProperty implements eval.PropertyHost.
func (p *properties) SetGlobalProperty(prop string, channel int, value float64, duration time.Duration, equation int, override bool) error {
	p.apply(propKey{prop: prop, channel: channel}, value, duration, equation, override)
	return nil
}

// SpritePropertyValue implements eval.PropertyHost.
func (p *properties) SpritePropertyValue(no int, prop string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := propKey{isSprite: true, no: no, prop: prop}.name()
	if p.tweens.Pending(name) {
		v, _ := p.tweens.Value(name)
		return v, nil
	}
	e, ok := p.sprites.Get(no)
	if !ok {
		return 0, fmt.Errorf("properties: no sprite at slot %d", no)
	}
	return spriteFieldGet(e, prop), nil
}

// GlobalPropertyValue implements eval.PropertyHost.
func (p *properties) GlobalPropertyValue(prop string, channel int) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := propKey{prop: prop, channel: channel}.name()
	if p.tweens.Pending(name) {
		v, _ := p.tweens.Value(name)
		return v, nil
	}
	return p.global[name], nil
}

func (p *properties) wait(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.tweens.Pending(name) {
		p.cond.Wait()
	}
}

// WaitOnSpriteProperty implements eval.PropertyHost. It blocks the
// calling goroutine until no tween is in flight for the named sprite
// property (returning immediately if none ever was).
func (p *properties) WaitOnSpriteProperty(no int, prop string) error {
	p.wait(propKey{isSprite: true, no: no, prop: prop}.name())
	return nil
}

// WaitOnGlobalProperty implements eval.PropertyHost.
func (p *properties) WaitOnGlobalProperty(prop string, channel int) error {
	p.wait(propKey{prop: prop, channel: channel}.name())
	return nil
}

// advance steps every in-flight tween by dt and folds whatever completed
// back into sprite/global baseline state, starting whatever was queued
// behind it. Owns the only call to tweens.Advance so that step and every
// property read/write serialize through the same mutex: Engine.Tick (one
// goroutine) and the running script's property commands (another) both
// reach the tween set only through properties.
func (p *properties) advance(dt time.Duration) {
	p.mu.Lock()
	completed := p.tweens.Advance(dt)
	for _, name := range completed {
		k, ok := p.keyMeta[name]
		if !ok {
			continue
		}
		v, _ := p.tweens.Value(name)
		if k.isSprite {
			if e, ok := p.sprites.Get(k.no); ok {
				spriteFieldSet(&e, k.prop, v)
				p.sprites.Set(e)
			}
		} else {
			p.global[name] = v
		}
		if q := p.queue[name]; len(q) > 0 {
			next := q[0]
			p.queue[name] = q[1:]
			p.tweens.Start(name, next.value, next.duration, next.easing)
		}
	}
	p.cond.Broadcast()
	p.mu.Unlock()
}
