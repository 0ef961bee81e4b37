package systems

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/wellspring/pkg/components"
	"github.com/gonewx/wellspring/pkg/ecs"
	"github.com/gonewx/wellspring/pkg/particles"
	"github.com/gonewx/wellspring/pkg/render"
)

// dotDrawable 记录绘制调用的测试用 Drawable
type dotDrawable struct {
	draws int
	last  ebiten.GeoM
	blend []ebiten.Blend
}

func (d *dotDrawable) Size() (float64, float64) { return 2, 2 }

func (d *dotDrawable) DrawTo(_ *ebiten.Image, geom ebiten.GeoM, _ ebiten.ColorScale, blend ebiten.Blend) {
	d.draws++
	d.last = geom
	d.blend = append(d.blend, blend)
}

func addEmitter(t *testing.T, em *ecs.EntityManager, settings particles.Settings, d render.Drawable, x, y float64) (ecs.EntityID, *components.EmitterComponent) {
	t.Helper()
	sys, err := particles.NewSystem(d, settings, particles.WithSeed(3))
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: x, Y: y})
	emitter := &components.EmitterComponent{Name: "test", System: sys}
	em.AddComponent(id, emitter)
	return id, emitter
}

func TestParticleSystemUpdate_Follow(t *testing.T) {
	em := ecs.NewEntityManager()
	id, emitter := addEmitter(t, em, particles.DefaultSettings(), &dotDrawable{}, 0, 0)
	emitter.Follow = true

	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	pos.X, pos.Y = 120, 80

	ps := NewParticleSystem(em)
	if err := ps.Update(0.1); err != nil {
		t.Fatal(err)
	}
	if got := emitter.System.Settings.Position; got != particles.V(120, 80) {
		t.Errorf("emitter position = %v, want (120, 80)", got)
	}
}

func TestParticleSystemUpdate_NoFollow(t *testing.T) {
	em := ecs.NewEntityManager()
	settings := particles.DefaultSettings()
	settings.Position = particles.V(5, 5)
	id, emitter := addEmitter(t, em, settings, &dotDrawable{}, 0, 0)

	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	pos.X = 300

	if err := NewParticleSystem(em).Update(0.1); err != nil {
		t.Fatal(err)
	}
	if got := emitter.System.Settings.Position; got != particles.V(5, 5) {
		t.Errorf("static emitter moved to %v", got)
	}
}

// TestParticleSystemUpdate_DestroyWhenDone 停止且无粒子的一次性发射器被自动删除
func TestParticleSystemUpdate_DestroyWhenDone(t *testing.T) {
	em := ecs.NewEntityManager()
	settings := particles.DefaultSettings()
	settings.ParticleLifetime = particles.Fixed(0.5)
	id, emitter := addEmitter(t, em, settings, &dotDrawable{}, 0, 0)
	emitter.DestroyWhenDone = true
	emitter.System.Stop()
	if err := emitter.System.Emit(4); err != nil {
		t.Fatal(err)
	}

	ps := NewParticleSystem(em)
	if err := ps.Update(0.25); err != nil {
		t.Fatal(err)
	}
	if !em.Exists(id) {
		t.Fatal("emitter removed while particles are still alive")
	}
	if err := ps.Update(0.25); err != nil {
		t.Fatal(err)
	}
	if em.Exists(id) {
		t.Error("finished one-shot emitter should be removed")
	}
}

func TestParticleSystemUpdate_KeepsPersistentEmitter(t *testing.T) {
	em := ecs.NewEntityManager()
	id, emitter := addEmitter(t, em, particles.DefaultSettings(), &dotDrawable{}, 0, 0)
	emitter.System.Stop()

	if err := NewParticleSystem(em).Update(0.1); err != nil {
		t.Fatal(err)
	}
	if !em.Exists(id) {
		t.Error("emitter without DestroyWhenDone must survive")
	}
}

func TestParticleSystemUpdate_JoinsErrors(t *testing.T) {
	em := ecs.NewEntityManager()
	_, broken := addEmitter(t, em, particles.DefaultSettings(), &dotDrawable{}, 0, 0)
	longLived := particles.DefaultSettings()
	longLived.ParticleLifetime = particles.Fixed(5)
	_, healthy := addEmitter(t, em, longLived, &dotDrawable{}, 0, 0)
	broken.System.Settings.Colors = nil

	err := NewParticleSystem(em).Update(1)
	if !errors.Is(err, particles.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	if healthy.System.Count() == 0 {
		t.Error("healthy emitter should still advance")
	}
}

func TestParticleSystemUpdate_NilSystem(t *testing.T) {
	em := ecs.NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{})
	em.AddComponent(id, &components.EmitterComponent{Name: "empty"})

	if err := NewParticleSystem(em).Update(0.1); err != nil {
		t.Fatal(err)
	}
	if em.Exists(id) {
		t.Error("emitter without a system should be removed")
	}
}

func TestParticleSystemStats(t *testing.T) {
	em := ecs.NewEntityManager()
	_, a := addEmitter(t, em, particles.DefaultSettings(), &dotDrawable{}, 0, 0)
	_, b := addEmitter(t, em, particles.DefaultSettings(), &dotDrawable{}, 0, 0)
	if err := a.System.Emit(3); err != nil {
		t.Fatal(err)
	}
	if err := b.System.Emit(2); err != nil {
		t.Fatal(err)
	}

	ps := NewParticleSystem(em)
	emitters, live := ps.Stats()
	if emitters != 2 || live != 5 {
		t.Errorf("Stats() = (%d, %d), want (2, 5)", emitters, live)
	}

	ps.StopAll()
	if a.System.Running() || b.System.Running() {
		t.Error("StopAll should stop every emitter")
	}
}
