package systems

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/wellspring/pkg/components"
	"github.com/gonewx/wellspring/pkg/ecs"
	"github.com/gonewx/wellspring/pkg/render"
)

// RenderSystem 绘制所有发射器实体的粒子
//
// 绘制顺序：
//   - 先绘制普通混合的发射器，再绘制加法混合的发射器（发光效果叠加在上）
//   - 同一混合模式内按实体创建顺序绘制
//
// 世界坐标的发射器减去摄像机偏移；带 ScreenSpaceComponent 的发射器直接使用屏幕坐标。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	target        render.Target // 复用，避免每帧分配
}

// NewRenderSystem 创建一个新的渲染系统
func NewRenderSystem(em *ecs.EntityManager) *RenderSystem {
	return &RenderSystem{entityManager: em}
}

// DrawParticles 绘制所有粒子
//
// 参数:
//   - screen: 绘制目标屏幕
//   - cameraX: 摄像机的世界坐标X位置（用于世界坐标到屏幕坐标的转换）
func (s *RenderSystem) DrawParticles(screen *ebiten.Image, cameraX float64) error {
	entities := ecs.GetEntitiesWith1[*components.EmitterComponent](s.entityManager)
	if len(entities) == 0 {
		return nil
	}

	var errs []error
	for _, additive := range [...]bool{false, true} {
		for _, id := range entities {
			emitter, _ := ecs.GetComponent[*components.EmitterComponent](s.entityManager, id)
			if emitter.System == nil || emitter.Additive != additive {
				continue
			}

			s.target.Screen = screen
			s.target.Additive = additive
			s.target.GeoM.Reset()
			if !ecs.HasComponent[*components.ScreenSpaceComponent](s.entityManager, id) {
				s.target.GeoM.Translate(-cameraX, 0)
			}

			if err := emitter.System.Draw(&s.target); err != nil {
				errs = append(errs, fmt.Errorf("draw emitter '%s': %w", emitter.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}
