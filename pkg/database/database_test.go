package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldMigrate(t *testing.T) {
	// 非release模式默认迁移，release模式需要显式开启
	assert.True(t, ShouldMigrate("debug", false))
	assert.True(t, ShouldMigrate("", false))
	assert.True(t, ShouldMigrate("release", true))
	assert.True(t, ShouldMigrate("debug", true))
	assert.False(t, ShouldMigrate("release", false))
}
