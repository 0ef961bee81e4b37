package systems

import (
	"errors"
	"fmt"
	"log"

	"github.com/gonewx/wellspring/pkg/components"
	"github.com/gonewx/wellspring/pkg/ecs"
	"github.com/gonewx/wellspring/pkg/particles"
)

// ParticleSystem advances every emitter entity once per frame.
//
// For each entity with EmitterComponent and PositionComponent it:
//  1. copies the entity position into the emitter settings (Follow)
//  2. advances the particle system by dt
//  3. marks finished one-shot emitters for removal (DestroyWhenDone)
//
// Removals are flushed at the end of Update.
type ParticleSystem struct {
	EntityManager *ecs.EntityManager
}

// NewParticleSystem creates a new ParticleSystem instance.
func NewParticleSystem(em *ecs.EntityManager) *ParticleSystem {
	return &ParticleSystem{EntityManager: em}
}

// Update advances all emitters by dt seconds. An emitter that fails to
// advance is skipped for this frame; all failures are joined and returned.
func (ps *ParticleSystem) Update(dt float64) error {
	emitterEntities := ecs.GetEntitiesWith2[
		*components.EmitterComponent,
		*components.PositionComponent,
	](ps.EntityManager)

	var errs []error
	for _, id := range emitterEntities {
		emitter, _ := ecs.GetComponent[*components.EmitterComponent](ps.EntityManager, id)
		position, _ := ecs.GetComponent[*components.PositionComponent](ps.EntityManager, id)

		if emitter.System == nil {
			log.Printf("[ParticleSystem] 发射器 '%s' (ID=%d) 没有粒子系统，删除实体", emitter.Name, id)
			ps.EntityManager.DestroyEntity(id)
			continue
		}

		if emitter.Follow {
			emitter.System.Settings.Position = particles.V(position.X, position.Y)
		}

		if err := emitter.System.Advance(dt); err != nil {
			errs = append(errs, fmt.Errorf("emitter '%s' (entity %d): %w", emitter.Name, id, err))
			continue
		}

		// 一次性特效：停止发射且粒子全部消失后自动清理
		if emitter.DestroyWhenDone && !emitter.System.Running() && emitter.System.Count() == 0 {
			ps.EntityManager.DestroyEntity(id)
		}
	}

	ps.EntityManager.RemoveMarkedEntities()
	return errors.Join(errs...)
}

// Stats returns the number of emitter entities and live particles.
func (ps *ParticleSystem) Stats() (emitters, live int) {
	for _, id := range ecs.GetEntitiesWith1[*components.EmitterComponent](ps.EntityManager) {
		emitter, _ := ecs.GetComponent[*components.EmitterComponent](ps.EntityManager, id)
		emitters++
		if emitter.System != nil {
			live += emitter.System.Count()
		}
	}
	return emitters, live
}

// StopAll stops automatic emission on every emitter. Live particles keep
// fading out and one-shot emitters are cleaned up as usual.
func (ps *ParticleSystem) StopAll() {
	for _, id := range ecs.GetEntitiesWith1[*components.EmitterComponent](ps.EntityManager) {
		if emitter, _ := ecs.GetComponent[*components.EmitterComponent](ps.EntityManager, id); emitter.System != nil {
			emitter.System.Stop()
		}
	}
}
