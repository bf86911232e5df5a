package configwatcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"skillforge_backend/internal/config"
	"skillforge_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, port string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(
		"server:\n  port: \""+port+"\"\n  mode: debug\n\njwt:\n  secret: watcher-test-secret\n  expire_hours: 1\n"), 0644))
}

func TestWatchConfig_NotifiesOnChange(t *testing.T) {
	logger.InitLogger("debug")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "8080")

	reloaded := make(chan *config.Config, 1)
	go WatchConfig(path, func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	// 反复改写直到监听器就绪并捕获到事件；写入间隔需大于防抖窗口
	deadline := time.After(15 * time.Second)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case cfg := <-reloaded:
			assert.Equal(t, "9090", cfg.Server.Port)
			assert.Equal(t, time.Hour, cfg.JWT.ExpireTime)
			return
		case <-ticker.C:
			writeConfig(t, path, "9090")
		case <-deadline:
			t.Fatal("config reload was not observed")
		}
	}
}
