package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByName(t *testing.T) {
	assert.Equal(t, CatppuccinMocha.Title.GetForeground(), ByName(" Catppuccin ").Title.GetForeground())
	assert.Equal(t, Monochrome.Income.GetForeground(), ByName("mono").Income.GetForeground())
	assert.Equal(t, Default.Title.GetForeground(), ByName("neon").Title.GetForeground())
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"catppuccin", "catppuccin-mocha", "default", "mono"}, Names())
}

func TestSelectedIsReadable(t *testing.T) {
	for _, name := range Names() {
		th := ByName(name)
		assert.NotEqual(t, th.Selected.GetBackground(), th.Selected.GetForeground(), name)
	}
}
