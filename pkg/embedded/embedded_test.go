package embedded

import (
	"errors"
	"slices"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/presets/fire.yaml":      {Data: []byte("name: fire\n")},
		"data/particles/Award.xml":    {Data: []byte("<Emitter/>")},
		"data/particles/Planting.xml": {Data: []byte("<Emitter/>")},
		"data/particles/notes.txt":    {Data: []byte("ignored")},
	}
}

// TestNotInitialized 测试未初始化时的行为
func TestNotInitialized(t *testing.T) {
	Init(nil)

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}
	if _, err := ReadFile("data/presets/fire.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ReadFile before Init: got %v, want ErrNotInitialized", err)
	}
	if _, err := Data(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Data before Init: got %v", err)
	}
	// Exists 在未初始化时应返回 false
	if Exists("data/presets/fire.yaml") {
		t.Error("Exists should be false before Init")
	}
}

func TestReadFile(t *testing.T) {
	Init(testFS())
	t.Cleanup(func() { Init(nil) })

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"plain", "data/presets/fire.yaml", "name: fire\n", false},
		{"dot prefix", "./data/presets/fire.yaml", "name: fire\n", false},
		{"missing", "data/presets/ice.yaml", "", true},
		{"bad prefix", "assets/fire.png", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestExistsGlobReadDir(t *testing.T) {
	Init(testFS())
	t.Cleanup(func() { Init(nil) })

	if !Exists("data/particles/Award.xml") || Exists("data/particles/Missing.xml") {
		t.Error("Exists returned the wrong answer")
	}

	files, err := ParticleFiles()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(files, []string{"data/particles/Award.xml", "data/particles/Planting.xml"}) {
		t.Errorf("ParticleFiles() = %v", files)
	}

	entries, err := ReadDir(PresetsDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "fire.yaml" {
		t.Errorf("ReadDir(%s) = %v", PresetsDir, entries)
	}
}
