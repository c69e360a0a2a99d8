package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	theme, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, Default.Primary, theme.Primary)

	theme, err = ByName("Catppuccin")
	require.NoError(t, err)
	assert.Equal(t, CatppuccinMocha.Primary, theme.Primary)

	_, err = ByName("solarized")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catppuccin, default")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"catppuccin", "default"}, Names())
}
