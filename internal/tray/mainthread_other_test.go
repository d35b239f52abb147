//go:build !darwin

package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnMainThread_RunsInline(t *testing.T) {
	ran := false
	onMainThread(func() { ran = true })
	assert.True(t, ran)
}
