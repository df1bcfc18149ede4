package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRootCmd(t *testing.T) {
	root := GetRootCmd()
	assert.Equal(t, "tabfile", root.Name())

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "cat")
	assert.Contains(t, names, "write")
	assert.Contains(t, names, "tail")
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, version, GetVersion())
}
