package entities

import (
	"fmt"

	"github.com/gonewx/wellspring/pkg/components"
	"github.com/gonewx/wellspring/pkg/config"
	"github.com/gonewx/wellspring/pkg/ecs"
	"github.com/gonewx/wellspring/pkg/particles"
	"github.com/gonewx/wellspring/pkg/render"
)

// EffectOptions 控制特效实体的附加行为
type EffectOptions struct {
	// Additive 使用加法混合绘制
	Additive bool
	// ScreenSpace 不受摄像机影响
	ScreenSpace bool
	// Static 发射器不跟随实体位置
	Static bool
	// SystemOptions 传给 particles.NewSystem（随机种子、日志）
	SystemOptions []particles.Option
}

// CreateParticleEffect creates a continuous emitter entity at the specified
// world position.
//
// The emitter follows its PositionComponent unless opts.Static is set. When
// the settings have a finite emitter lifetime the entity removes itself once
// the last particle is gone.
//
// Example:
//
//	id, err := entities.CreateParticleEffect(em, "fire", settings, drawable, 400, 300, entities.EffectOptions{})
//	if err != nil {
//	    log.Printf("Failed to create particle effect: %v", err)
//	}
func CreateParticleEffect(em *ecs.EntityManager, name string, settings particles.Settings, drawable render.Drawable, worldX, worldY float64, opts EffectOptions) (ecs.EntityID, error) {
	emitter, err := newEffectEmitter(name, settings, drawable, worldX, worldY, opts)
	if err != nil {
		return 0, err
	}
	return addEmitterEntity(em, emitter, worldX, worldY, opts.ScreenSpace), nil
}

func newEffectEmitter(name string, settings particles.Settings, drawable render.Drawable, worldX, worldY float64, opts EffectOptions) (*components.EmitterComponent, error) {
	settings.Position = particles.V(worldX, worldY)
	sys, err := particles.NewSystem(drawable, settings, opts.SystemOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create particle effect '%s': %w", name, err)
	}

	_, finite := settings.EmitterLifetime.Seconds()
	return &components.EmitterComponent{
		Name:            name,
		System:          sys,
		DestroyWhenDone: finite,
		Follow:          !opts.Static,
		Additive:        opts.Additive,
	}, nil
}

// CreateParticleBurst creates a one-shot effect: count particles are emitted
// immediately, automatic emission is off and the entity is removed when the
// burst has faded out.
func CreateParticleBurst(em *ecs.EntityManager, name string, settings particles.Settings, drawable render.Drawable, worldX, worldY float64, count int, opts EffectOptions) (ecs.EntityID, error) {
	settings.Position = particles.V(worldX, worldY)
	sys, err := particles.NewSystem(drawable, settings, opts.SystemOptions...)
	if err != nil {
		return 0, fmt.Errorf("failed to create particle burst '%s': %w", name, err)
	}
	sys.Stop()
	if err := sys.Emit(count); err != nil {
		return 0, fmt.Errorf("failed to emit particle burst '%s': %w", name, err)
	}

	return addEmitterEntity(em, &components.EmitterComponent{
		Name:            name,
		System:          sys,
		DestroyWhenDone: true,
		Additive:        opts.Additive,
	}, worldX, worldY, opts.ScreenSpace), nil
}

// CreateEffectFromConfig creates an effect entity from a preset.
//
// The preset's Additive flag overrides opts.Additive. A preset with a burst
// count emits that many particles on creation; emission then continues at
// the preset's rate. A preset with burst > 0 and rate 0 becomes a one-shot
// effect cleaned up once its particles fade.
func CreateEffectFromConfig(em *ecs.EntityManager, cfg *config.EffectConfig, drawable render.Drawable, worldX, worldY float64, opts EffectOptions) (ecs.EntityID, error) {
	settings, err := cfg.ToSettings()
	if err != nil {
		return 0, err
	}
	opts.Additive = cfg.Additive

	if cfg.Burst > 0 && settings.EmissionRate == 0 {
		return CreateParticleBurst(em, cfg.Name, settings, drawable, worldX, worldY, cfg.Burst, opts)
	}

	// 初始爆发在实体创建之前发射，失败时不留下实体
	emitter, err := newEffectEmitter(cfg.Name, settings, drawable, worldX, worldY, opts)
	if err != nil {
		return 0, err
	}
	if cfg.Burst > 0 {
		if err := emitter.System.Emit(cfg.Burst); err != nil {
			return 0, fmt.Errorf("failed to emit initial burst of '%s': %w", cfg.Name, err)
		}
	}
	return addEmitterEntity(em, emitter, worldX, worldY, opts.ScreenSpace), nil
}

func addEmitterEntity(em *ecs.EntityManager, emitter *components.EmitterComponent, x, y float64, screenSpace bool) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: x, Y: y})
	em.AddComponent(id, emitter)
	if screenSpace {
		em.AddComponent(id, &components.ScreenSpaceComponent{})
	}
	return id
}
