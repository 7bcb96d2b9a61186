package embedded

import (
	"testing"
	"testing/fstest"
)

func reset() {
	dataFS = nil
	initialized = false
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	reset()
	defer reset()

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(fstest.MapFS{})
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}
}

// TestReadFileNotInitialized 测试未初始化时读取
func TestReadFileNotInitialized(t *testing.T) {
	reset()

	if _, err := ReadFile("data/metrics.yaml"); err == nil {
		t.Error("Expected error when reading before Init()")
	}
}

func TestReadFile(t *testing.T) {
	reset()
	defer reset()

	Init(fstest.MapFS{
		"data/metrics.yaml": &fstest.MapFile{Data: []byte("metrics: []")},
	})

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"普通路径", "data/metrics.yaml", false},
		{"带 ./ 前缀", "./data/metrics.yaml", false},
		{"错误前缀", "assets/metrics.yaml", true},
		{"文件不存在", "data/missing.yaml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) err = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && string(data) != "metrics: []" {
				t.Errorf("ReadFile(%q) = %q", tt.path, data)
			}
		})
	}

	if !Exists("data/metrics.yaml") || Exists("data/missing.yaml") {
		t.Error("Exists returned wrong result")
	}
}
