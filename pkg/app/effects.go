package app

import (
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/gonewx/wellspring/internal/particle"
	"github.com/gonewx/wellspring/pkg/config"
)

// Effect 查看器中可切换的一个条目
// 预设条目只有一个发射器；XML 条目包含文件中的全部发射器，同时播放
type Effect struct {
	Name     string
	Emitters []*config.EffectConfig
}

// PresetEffects 把预设目录转换为条目列表（按名称排序）
func PresetEffects(catalog *config.PresetCatalog) []Effect {
	effects := make([]Effect, 0, catalog.Len())
	for _, name := range catalog.Names() {
		cfg, err := catalog.Get(name)
		if err != nil {
			continue
		}
		effects = append(effects, Effect{Name: name, Emitters: []*config.EffectConfig{cfg}})
	}
	return effects
}

// ParticleEffects 加载粒子 XML 文件，每个文件一个条目
//
// 参数：
//   - fsys: 资源文件系统
//   - files: XML 文件路径（相对 fsys）
//
// 返回：
//   - []Effect: 成功导入的条目；无法导入的文件记录日志后跳过
//   - error: 所有文件都失败时返回错误
func ParticleEffects(fsys fs.FS, files []string) ([]Effect, error) {
	effects := make([]Effect, 0, len(files))
	var lastErr error
	for _, file := range files {
		pc, err := particle.LoadParticleXML(fsys, file)
		if err == nil {
			var cfgs []*config.EffectConfig
			if cfgs, err = config.FromParticleXML(pc); err == nil {
				name := strings.TrimSuffix(path.Base(file), path.Ext(file))
				effects = append(effects, Effect{Name: name, Emitters: cfgs})
				continue
			}
		}
		log.Printf("[App] Warning: skipping %s: %v", file, err)
		lastErr = err
	}
	if len(effects) == 0 && lastErr != nil {
		return nil, fmt.Errorf("no particle file could be imported: %w", lastErr)
	}
	return effects, nil
}

// FilterEffects 按名称过滤（不区分大小写的子串匹配）
func FilterEffects(effects []Effect, query string) []Effect {
	if query == "" {
		return effects
	}
	q := strings.ToLower(query)
	filtered := make([]Effect, 0)
	for _, e := range effects {
		if strings.Contains(strings.ToLower(e.Name), q) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// indexOf 返回名称对应的下标，不存在时返回 -1
func indexOf(effects []Effect, name string) int {
	for i, e := range effects {
		if e.Name == name {
			return i
		}
	}
	return -1
}
