package compile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "Id: "+Hostname+".contree")
	assert.Contains(t, out, "Version: "+Version)
	assert.Contains(t, out, "OS: "+GoOs+"/"+GoArch)
	assert.NotEmpty(t, Version)
}
