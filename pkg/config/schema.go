package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// EffectSchema 反射 EffectConfig 生成 JSON Schema，供编辑器校验预设文件
func EffectSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(new(EffectConfig))
	schema.Title = "Wellspring Effect Preset"
	schema.Description = "Designer-authored particle effect consumed by the wellspring viewer and live tuning server"
	return schema
}

// Schema 返回缩进后的 JSON Schema 文本
func Schema() ([]byte, error) {
	data, err := json.MarshalIndent(EffectSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
