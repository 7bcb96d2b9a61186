package config

// 窗口与逻辑屏幕尺寸
const (
	// GameWindowWidth 逻辑屏幕宽度（像素）
	GameWindowWidth = 960
	// GameWindowHeight 逻辑屏幕高度（像素），即视口高度
	GameWindowHeight = 640
	// TPS 每秒逻辑更新次数
	TPS = 60
)

// 滚动输入
const (
	// WheelStep 鼠标滚轮每格滚动的距离
	WheelStep = 48.0
	// KeyScrollSpeed 方向键按住时每帧滚动的距离
	KeyScrollSpeed = 10.0
	// PageScrollRatio 翻页键滚动视口高度的比例
	PageScrollRatio = 0.9
)
