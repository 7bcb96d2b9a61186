//go:build !mobile

// stub.go - 桌面构建时的占位文件
//
// 桌面端入口在根目录 main.go；mobile.go 和 embed.go 只在 -tags mobile 时编译。
package mobile

// Dummy 是一个空导出函数，确保包在非移动端构建时也能被引用
func Dummy() {}
