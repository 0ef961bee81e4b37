package particle

import (
	"encoding/xml"
	"fmt"
	"io/fs"
)

// ParseParticleXML parses the contents of a particle XML file.
//
// The file may contain multiple top-level <Emitter> elements without a
// root wrapper, so the content is wrapped in a synthetic root element.
func ParseParticleXML(data []byte) (*ParticleConfig, error) {
	wrapped := make([]byte, 0, len(data)+len("<ParticleConfig></ParticleConfig>"))
	wrapped = append(wrapped, "<ParticleConfig>"...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, "</ParticleConfig>"...)

	var config ParticleConfig
	if err := xml.Unmarshal(wrapped, &config); err != nil {
		return nil, fmt.Errorf("failed to parse particle XML: %w", err)
	}
	if len(config.Emitters) == 0 {
		return nil, fmt.Errorf("particle XML contains no emitters")
	}
	return &config, nil
}

// LoadParticleXML reads and parses a particle XML file from fsys.
//
// Example usage:
//
//	config, err := particle.LoadParticleXML(embedded.Data(), "data/particles/Award.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Loaded %d emitters\n", len(config.Emitters))
func LoadParticleXML(fsys fs.FS, path string) (*ParticleConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read particle XML file %s: %w", path, err)
	}
	config, err := ParseParticleXML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}
