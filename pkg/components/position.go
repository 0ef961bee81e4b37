package components

// PositionComponent 实体的世界坐标
type PositionComponent struct {
	X float64
	Y float64
}

// ScreenSpaceComponent marks an entity that is drawn in screen space,
// ignoring the camera offset (HUD effects, cursor trails).
type ScreenSpaceComponent struct{}
