package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Remove 不得動到來源切片的底層陣列
func TestRemoveLeavesSourceIntact(t *testing.T) {
	src := []string{"a", "b", "c"}

	out := Remove(src, "b")

	assert.Equal(t, []string{"a", "c"}, out)
	assert.Equal(t, []string{"a", "b", "c"}, src)
}

// 找不到目標時原樣回傳
func TestRemoveMissingValue(t *testing.T) {
	src := []string{"a", "b"}
	assert.Equal(t, []string{"a", "b"}, Remove(src, "x"))
}
