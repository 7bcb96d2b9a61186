package game

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, app string) *gdata.Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")

	m, err := gdata.Open(gdata.Config{AppName: app})
	require.NoError(t, err, "failed to create gdata manager")
	return m
}

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	require.NotNil(t, settings)
	assert.False(t, settings.ReducedMotion)
	assert.True(t, settings.ScrubSmoothing)
	assert.Empty(t, settings.Locale)
	assert.False(t, settings.Fullscreen)
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm := NewSettingsManager(nil, nil)
	require.NotNil(t, sm.GetSettings())
	assert.Equal(t, DefaultSettings(), sm.GetSettings())

	sm.SetReducedMotion(true)
	assert.NoError(t, sm.Save(), "degraded mode save must not fail")
}

// TestSettingsLoadSave 测试 Load() 和 Save() 往返
func TestSettingsLoadSave(t *testing.T) {
	store := openTestStore(t, "wqscroll_test_settings")

	sm1 := NewSettingsManager(store, nil)
	assert.Equal(t, DefaultSettings(), sm1.GetSettings(), "fresh store uses defaults")

	sm1.SetReducedMotion(true)
	sm1.SetScrubSmoothing(false)
	sm1.SetLocale("de")
	sm1.SetFullscreen(true)
	require.NoError(t, sm1.Save())

	sm2 := NewSettingsManager(store, nil)
	assert.Equal(t, &Settings{
		ReducedMotion:  true,
		ScrubSmoothing: false,
		Locale:         "de",
		Fullscreen:     true,
	}, sm2.GetSettings())
}

// TestSettingsCorruptData 反序列化失败时恢复默认设置
func TestSettingsCorruptData(t *testing.T) {
	store := openTestStore(t, "wqscroll_test_corrupt")
	require.NoError(t, store.SaveObjectProp(settingsObject, settingsProperty, []byte("reducedMotion: [not a bool")))

	sm := NewSettingsManager(store, nil)
	assert.Equal(t, DefaultSettings(), sm.GetSettings())
	assert.Error(t, sm.Load())
}

// TestSettingsPartialData 未写出的字段保留默认值
func TestSettingsPartialData(t *testing.T) {
	store := openTestStore(t, "wqscroll_test_partial")
	require.NoError(t, store.SaveObjectProp(settingsObject, settingsProperty, []byte("reducedMotion: true\n")))

	sm := NewSettingsManager(store, nil)
	assert.True(t, sm.GetSettings().ReducedMotion)
	assert.True(t, sm.GetSettings().ScrubSmoothing)
}
