package s3

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExt(t *testing.T) {
	ext, ok := Ext("Cat.PNG", ImageExtensions)
	assert.True(t, ok)
	assert.Equal(t, ".png", ext)

	_, ok = Ext("clip.mp4", ImageExtensions)
	assert.False(t, ok)

	_, ok = Ext("noext", ImageExtensions)
	assert.False(t, ok)

	ext, ok = Ext("clip.MOV", VideoExtensions)
	assert.True(t, ok)
	assert.Equal(t, ".mov", ext)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "cat.png", SafeName("cat.png"))
	assert.Equal(t, "passwd", SafeName("../../etc/passwd"))
	assert.Equal(t, "my_cat.png", SafeName("my cat.png"))
	assert.Equal(t, "evil.png", SafeName(`C:\tmp\evil.png`))
	assert.Equal(t, "file", SafeName("..."))
}

func TestKeys(t *testing.T) {
	key := AvatarKey("cat.png")
	assert.True(t, strings.HasPrefix(key, "avatars/"))
	assert.True(t, strings.HasSuffix(key, "_cat.png"))

	anim := AnimationKey()
	assert.True(t, strings.HasPrefix(anim, "animations/animation_"))
	assert.True(t, strings.HasSuffix(anim, ".mp4"))

	assert.NotEqual(t, AnimationKey(), AnimationKey())
	assert.True(t, strings.HasSuffix(DrivingVideoKey(".mov"), ".mov"))
}
