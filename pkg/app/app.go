// Package app 提供特效查看器的核心包装器
//
// 该包把查看器的初始化和帧循环从 main 包提取出来，
// 桌面端预设调试器（main.go）、XML 粒子查看器（cmd/particles）和移动端（mobile/）共用。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/wellspring/pkg/components"
	"github.com/gonewx/wellspring/pkg/config"
	"github.com/gonewx/wellspring/pkg/ecs"
	"github.com/gonewx/wellspring/pkg/entities"
	"github.com/gonewx/wellspring/pkg/game"
	"github.com/gonewx/wellspring/pkg/particles"
	"github.com/gonewx/wellspring/pkg/remote"
	"github.com/gonewx/wellspring/pkg/render"
	"github.com/gonewx/wellspring/pkg/systems"
	"github.com/gonewx/wellspring/pkg/utils"
)

// 逻辑屏幕尺寸
const (
	ScreenWidth  = 1024
	ScreenHeight = 768
)

const (
	statusDuration = 180 // 状态提示显示的帧数
	statusFade     = 60  // 最后若干帧淡出
)

var backgroundColor = color.RGBA{25, 25, 38, 255}

// Config 定义查看器启动配置
type Config struct {
	// Verbose 启用详细日志输出（包括粒子核心的 slog 调试日志）
	Verbose bool
	// Effects 可切换的特效条目
	Effects []Effect
	// Start 启动时选择的条目名称；为空则使用上次的选择
	Start string
	// Seed 非 0 时每个粒子系统使用确定的随机种子
	Seed uint64
	// Assets 图片 drawable 的文件系统，可为 nil
	Assets fs.FS
	// Storage gdata 存储管理器，可为 nil（降级模式，仅内存）
	Storage *gdata.Manager
	// IncludeSaved 把已保存的调参结果加入条目列表（同名覆盖）
	IncludeSaved bool
	// Remote 在线调参服务，可为 nil
	Remote *remote.Server
}

// App 是查看器的核心包装器，实现 ebiten.Game 接口
type App struct {
	entityManager  *ecs.EntityManager
	particleSystem *systems.ParticleSystem
	renderSystem   *systems.RenderSystem
	clock          render.TickClock

	effects   []Effect
	current   int
	live      []ecs.EntityID // 当前条目在屏幕中心的发射器实体
	drawables map[*config.EffectConfig]render.Drawable
	assets    fs.FS
	seed      uint64
	spawned   uint64

	settings *game.SettingsManager
	presets  *game.PresetStore
	remote   *remote.Server

	status      string
	statusTicks int
	lastDrawErr string
}

// NewApp 创建并初始化查看器
//
// 启动时在屏幕中心生成当前选择的特效，避免空白屏幕。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	} else {
		particles.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	a := &App{
		entityManager: ecs.NewEntityManager(),
		effects:       append([]Effect(nil), cfg.Effects...),
		drawables:     make(map[*config.EffectConfig]render.Drawable),
		assets:        cfg.Assets,
		seed:          cfg.Seed,
		settings:      game.NewSettingsManager(cfg.Storage),
		remote:        cfg.Remote,
	}
	a.particleSystem = systems.NewParticleSystem(a.entityManager)
	a.renderSystem = systems.NewRenderSystem(a.entityManager)

	a.presets = game.NewPresetStore(cfg.Storage)

	if cfg.IncludeSaved {
		names, err := a.presets.Names()
		if err != nil {
			log.Printf("[App] Warning: %v (saved presets unavailable)", err)
		}
		for _, name := range names {
			saved, err := a.presets.Load(name)
			if err != nil {
				log.Printf("[App] Warning: %v", err)
				continue
			}
			a.upsert(saved)
		}
	}
	if len(a.effects) == 0 {
		return nil, errors.New("没有可显示的特效")
	}

	start := cfg.Start
	if start == "" {
		start = a.settings.GetSettings().LastPreset
	}
	if i := indexOf(a.effects, start); i >= 0 {
		a.current = i
	} else if cfg.Start != "" {
		log.Printf("[App] Warning: effect %q not found, starting with %s", cfg.Start, a.effects[0].Name)
	}

	log.Printf("[App] Viewer initialized: %d effects, starting with %s", len(a.effects), a.effects[a.current].Name)
	a.selectEffect(a.current)
	return a, nil
}

// Update 更新查看器逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	a.handleInput()
	a.pollRemote()

	if a.settings.GetSettings().FollowMouse {
		x, y := ebiten.CursorPosition()
		a.moveLive(float64(x), float64(y))
	}

	dt := a.clock.Delta() * a.settings.GetSettings().TimeScale
	if err := a.particleSystem.Update(dt); err != nil {
		log.Printf("[App] Particle update failed: %v", err)
	}
	a.pruneLive()

	if a.statusTicks > 0 {
		a.statusTicks--
	}
	return nil
}

// Draw 绘制查看器画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	// 只在错误变化时记录，避免每帧刷屏
	if err := a.renderSystem.DrawParticles(screen, 0); err != nil {
		if msg := err.Error(); msg != a.lastDrawErr {
			log.Printf("[App] Draw failed: %v", err)
			a.lastDrawErr = msg
		}
	}

	if a.settings.GetSettings().ShowHUD {
		a.drawHUD(screen)
	}
	a.drawStatus(screen)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Close 保存查看器设置
// 在 RunGame 返回后调用
func (a *App) Close() error {
	return a.settings.Save()
}

// Current 返回当前条目
func (a *App) Current() Effect {
	return a.effects[a.current]
}

func (a *App) handleInput() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		a.selectEffect(a.current - 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		a.selectEffect(a.current + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		a.selectEffect(a.current)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		a.spawn(float64(x), float64(y), false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.ToggleEmission()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.ClearAll()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		follow := !a.settings.GetSettings().FollowMouse
		a.settings.SetFollowMouse(follow)
		if !follow {
			a.moveLive(ScreenWidth/2, ScreenHeight/2)
		}
		a.setStatus(fmt.Sprintf("Follow mouse: %v", follow))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		a.settings.SetShowHUD(!a.settings.GetSettings().ShowHUD)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		a.settings.SetTimeScale(a.settings.GetSettings().TimeScale / 1.25)
		a.setStatus(fmt.Sprintf("Time scale: %.2fx", a.settings.GetSettings().TimeScale))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		a.settings.SetTimeScale(a.settings.GetSettings().TimeScale * 1.25)
		a.setStatus(fmt.Sprintf("Time scale: %.2fx", a.settings.GetSettings().TimeScale))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := a.SaveCurrent(); err != nil {
			a.setStatus(fmt.Sprintf("Save failed: %v", err))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.copyCurrent()
	}
}

// selectEffect 切换到第 i 个条目（循环），旧的中心发射器停止并淡出
func (a *App) selectEffect(i int) {
	n := len(a.effects)
	a.current = ((i % n) + n) % n

	for _, id := range a.live {
		if emitter, ok := ecs.GetComponent[*components.EmitterComponent](a.entityManager, id); ok {
			emitter.System.Stop()
			emitter.DestroyWhenDone = true
		}
	}
	a.live = a.live[:0]

	name := a.effects[a.current].Name
	a.settings.SetLastPreset(name)
	log.Printf("[App] Current effect: %s (%d/%d)", name, a.current+1, n)

	x, y := float64(ScreenWidth/2), float64(ScreenHeight/2)
	if a.settings.GetSettings().FollowMouse {
		cx, cy := ebiten.CursorPosition()
		x, y = float64(cx), float64(cy)
	}
	a.spawn(x, y, true)
}

// spawn 在 (x, y) 生成当前条目的全部发射器
// track 为 true 时记为中心发射器（受跟随、启停和在线调参控制）
func (a *App) spawn(x, y float64, track bool) {
	e := a.effects[a.current]
	for _, cfg := range e.Emitters {
		d, err := a.drawable(cfg)
		if err != nil {
			log.Printf("[App] Failed to build drawable for %s: %v", cfg.Name, err)
			a.setStatus(fmt.Sprintf("Error: %v", err))
			return
		}
		id, err := entities.CreateEffectFromConfig(a.entityManager, cfg, d, x, y, entities.EffectOptions{
			SystemOptions: a.systemOptions(),
		})
		if err != nil {
			log.Printf("[App] Failed to create effect %s: %v", cfg.Name, err)
			a.setStatus(fmt.Sprintf("Error: %v", err))
			return
		}
		if track {
			a.live = append(a.live, id)
		}
	}
	log.Printf("[App] Spawned effect: %s at (%.0f, %.0f)", e.Name, x, y)
	a.setStatus(fmt.Sprintf("Spawned: %s", e.Name))
}

// drawable 返回发射器的 drawable，同一配置只构建一次
func (a *App) drawable(cfg *config.EffectConfig) (render.Drawable, error) {
	if d, ok := a.drawables[cfg]; ok {
		return d, nil
	}
	d, err := render.NewDrawable(cfg.Drawable, a.assets)
	if err != nil {
		return nil, err
	}
	a.drawables[cfg] = d
	return d, nil
}

func (a *App) systemOptions() []particles.Option {
	if a.seed == 0 {
		return nil
	}
	a.spawned++
	return []particles.Option{particles.WithSeed(a.seed + a.spawned)}
}

// ToggleEmission 启停中心发射器的自动发射
func (a *App) ToggleEmission() {
	running := false
	for _, id := range a.live {
		if emitter, ok := ecs.GetComponent[*components.EmitterComponent](a.entityManager, id); ok && emitter.System.Running() {
			running = true
			break
		}
	}
	for _, id := range a.live {
		if emitter, ok := ecs.GetComponent[*components.EmitterComponent](a.entityManager, id); ok {
			if running {
				emitter.System.Stop()
			} else {
				emitter.System.Start()
			}
		}
	}
	if running {
		a.setStatus("Emission stopped")
	} else {
		a.setStatus("Emission started")
	}
}

// ClearAll 删除所有发射器实体
func (a *App) ClearAll() {
	emitters := ecs.GetEntitiesWith1[*components.EmitterComponent](a.entityManager)
	for _, id := range emitters {
		a.entityManager.DestroyEntity(id)
	}
	a.entityManager.RemoveMarkedEntities()
	a.live = a.live[:0]
	log.Printf("[App] Cleared %d emitters", len(emitters))
	a.setStatus("Cleared all particles")
}

// moveLive 把中心发射器移动到 (x, y)
func (a *App) moveLive(x, y float64) {
	for _, id := range a.live {
		if pos, ok := ecs.GetComponent[*components.PositionComponent](a.entityManager, id); ok {
			pos.X, pos.Y = x, y
		}
	}
}

// pruneLive 移除已被清理的实体（一次性爆发结束后）
func (a *App) pruneLive() {
	kept := a.live[:0]
	for _, id := range a.live {
		if a.entityManager.Exists(id) {
			kept = append(kept, id)
		}
	}
	a.live = kept
}

// SaveCurrent 把当前条目保存到预设存储
// 只支持单发射器条目
func (a *App) SaveCurrent() error {
	e := a.effects[a.current]
	if len(e.Emitters) != 1 {
		return fmt.Errorf("%s has %d emitters, only single-emitter effects can be saved", e.Name, len(e.Emitters))
	}
	if err := a.presets.Save(e.Emitters[0]); err != nil {
		return err
	}
	where := "memory"
	if a.presets.Persistent() {
		where = "disk"
	}
	a.setStatus(fmt.Sprintf("Saved %s to %s", e.Name, where))
	return nil
}

// CurrentYAML 返回当前条目的 YAML 文本，多个发射器用文档分隔符连接
func (a *App) CurrentYAML() (string, error) {
	var docs []string
	for _, cfg := range a.effects[a.current].Emitters {
		data, err := cfg.Marshal()
		if err != nil {
			return "", err
		}
		docs = append(docs, string(data))
	}
	return strings.Join(docs, "---\n"), nil
}

func (a *App) copyCurrent() {
	if clipboard.Unsupported {
		a.setStatus("Clipboard is not supported on this platform")
		return
	}
	doc, err := a.CurrentYAML()
	if err == nil {
		err = clipboard.WriteAll(doc)
	}
	if err != nil {
		log.Printf("[App] Copy failed: %v", err)
		a.setStatus(fmt.Sprintf("Copy failed: %v", err))
		return
	}
	a.setStatus(fmt.Sprintf("Copied %s to clipboard", a.effects[a.current].Name))
}

func (a *App) pollRemote() {
	if a.remote == nil {
		return
	}
	if cfg, ok := a.remote.Poll(); ok {
		a.ApplyPreset(cfg)
	}
}

// ApplyPreset 应用在线调参收到的预设
//
// 当前条目同名、drawable 未变且中心发射器仍存活时，直接替换设置，
// 存活粒子保持不变；否则替换或追加条目并重新生成。
func (a *App) ApplyPreset(cfg *config.EffectConfig) {
	i := a.upsert(cfg)
	if i == a.current && a.retune(cfg) {
		a.setStatus(fmt.Sprintf("Tuned: %s", cfg.Name))
		return
	}
	a.selectEffect(i)
	a.setStatus(fmt.Sprintf("Loaded: %s", cfg.Name))
}

// upsert 替换同名单发射器条目或追加新条目，返回条目下标
func (a *App) upsert(cfg *config.EffectConfig) int {
	if i := indexOf(a.effects, cfg.Name); i >= 0 {
		old := a.effects[i].Emitters
		if len(old) == 1 && old[0].Drawable == cfg.Drawable {
			if d, ok := a.drawables[old[0]]; ok {
				a.drawables[cfg] = d
			}
		}
		for _, o := range old {
			delete(a.drawables, o)
		}
		a.effects[i].Emitters = []*config.EffectConfig{cfg}
		return i
	}
	a.effects = append(a.effects, Effect{Name: cfg.Name, Emitters: []*config.EffectConfig{cfg}})
	return len(a.effects) - 1
}

// retune 原地替换中心发射器的设置，无法原地替换时返回 false
func (a *App) retune(cfg *config.EffectConfig) bool {
	if len(a.live) != 1 {
		return false
	}
	emitter, ok := ecs.GetComponent[*components.EmitterComponent](a.entityManager, a.live[0])
	if !ok {
		return false
	}
	d, err := a.drawable(cfg)
	if err != nil || emitter.System.Drawable() != d {
		return false
	}
	s, err := cfg.ToSettings()
	if err != nil {
		return false
	}
	s.Position = emitter.System.Settings.Position
	if err := emitter.System.SetSettings(s); err != nil {
		log.Printf("[App] Retune %s failed: %v", cfg.Name, err)
		return false
	}
	emitter.Additive = cfg.Additive
	return true
}

func (a *App) setStatus(msg string) {
	a.status = msg
	a.statusTicks = statusDuration
}

// drawHUD 绘制左上角信息和底部按键说明
func (a *App) drawHUD(screen *ebiten.Image) {
	e := a.effects[a.current]
	s := a.settings.GetSettings()
	emitters, live := a.particleSystem.Stats()

	lines := []string{
		fmt.Sprintf("Effect %d/%d: %s (%d emitters)", a.current+1, len(a.effects), e.Name, len(e.Emitters)),
		fmt.Sprintf("Active emitters: %d  Particles: %d  TPS: %.0f", emitters, live, ebiten.ActualTPS()),
		fmt.Sprintf("Time scale: %.2fx  Follow: %v", s.TimeScale, s.FollowMouse),
	}
	if a.remote != nil {
		lines = append(lines, fmt.Sprintf("Tuning clients: %d", a.remote.Clients()))
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 10, 10+i*20)
	}

	controls := []string{
		"<-/-> = Prev/Next  Enter = Respawn  Click = Spawn at cursor  Space = Start/Stop",
		"F = Follow mouse  R = Clear  -/= = Time scale  S = Save  C = Copy YAML  H = HUD  Q = Quit",
	}
	y := ScreenHeight - len(controls)*20 - 10
	for i, line := range controls {
		ebitenutil.DebugPrintAt(screen, line, 10, y+i*20)
	}
}

// drawStatus 绘制状态提示，最后 statusFade 帧淡出
func (a *App) drawStatus(screen *ebiten.Image) {
	if a.statusTicks <= 0 || a.status == "" {
		return
	}
	alpha := 1.0
	if a.statusTicks < statusFade {
		alpha = utils.EaseOutCubic(float64(a.statusTicks) / statusFade)
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(10, ScreenHeight-80)
	op.ColorScale.ScaleAlpha(float32(alpha))
	text.Draw(screen, a.status, render.DefaultFace, op)
}
