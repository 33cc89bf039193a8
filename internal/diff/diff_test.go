package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Change(t *testing.T) {
	out := Render("03", "old line", "new line")
	assert.Contains(t, out, "03")
	assert.Contains(t, out, "-old line")
	assert.Contains(t, out, "+new line")
}

func TestRender_Addition(t *testing.T) {
	out := Render("1", "", "brand new")
	assert.Contains(t, out, "+brand new")
	assert.NotContains(t, out, "-brand new")
}

func TestRender_Deletion(t *testing.T) {
	out := Render("1", "goes away", "")
	assert.Contains(t, out, "-goes away")
	assert.NotContains(t, out, "+goes away")
}

func TestRender_HeaderOnFirstLine(t *testing.T) {
	out := Render("07", "a", "b")
	first := strings.SplitN(out, "\n", 2)[0]
	assert.Contains(t, first, "07")
}
