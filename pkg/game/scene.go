package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a screen driven by the host game loop.
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Resizable 是一个可选接口，场景通过它得知视口尺寸
//
// 宿主第一次调用 Layout 后视口尺寸才可用，
// 水质场景以此作为"视口能力"就绪的信号。
type Resizable interface {
	Resize(width, height int)
}

// Disposable 是一个可选接口，场景被切换或程序退出时释放资源
// （时间轴、后台协程、文件监听）
type Disposable interface {
	Dispose()
}
