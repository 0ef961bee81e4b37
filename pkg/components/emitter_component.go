package components

import (
	"github.com/gonewx/wellspring/pkg/particles"
	"github.com/gonewx/wellspring/pkg/render"
)

// EmitterComponent attaches a particle system to an entity.
//
// The ParticleSystem advances it every frame and the RenderSystem draws it.
// This is a pure data component following ECS principles - it contains no methods.
type EmitterComponent struct {
	// Name 特效名称（预设名或 XML 发射器名），仅用于日志与调试
	Name string

	// System 粒子系统（持有发射器设置与存活粒子）
	System *particles.System[render.Drawable]

	// DestroyWhenDone 发射器停止且没有存活粒子时自动删除实体
	// 一次性特效（爆炸、点击爆发）设为 true；常驻特效设为 false
	DestroyWhenDone bool

	// Follow 每帧把实体位置同步到发射器中心
	// 已发射的粒子不受影响（保持世界坐标）
	Follow bool

	// Additive 使用加法混合绘制
	Additive bool
}
