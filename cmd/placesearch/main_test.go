package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"placefinder-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCommandRequiresQuery(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}

	err := app.Run([]string{"placesearch", "--config", t.TempDir(), "search"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "query is required")
}

func TestNearbyCommandFlags(t *testing.T) {
	t.Run("cat is required", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}
		app.ErrWriter = &bytes.Buffer{}

		err := app.Run([]string{"placesearch", "nearby", "--lat", "37.97", "--lon", "23.73"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cat")
	})

	t.Run("radius defaults to zero", func(t *testing.T) {
		cmd := newApp().Command("nearby")
		require.NotNil(t, cmd)

		var names []string
		for _, f := range cmd.Flags {
			names = append(names, f.Names()[0])
		}
		assert.Equal(t, []string{"lat", "lon", "cat", "radius"}, names)
	})
}

func TestNearbyCommandUnsupportedCategory(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err := app.Run([]string{"placesearch", "--config", t.TempDir(), "nearby", "--lat", "37.97", "--lon", "23.73", "--cat", "museum"})
	require.NoError(t, err)

	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.Found)
	assert.Empty(t, resp.Results)
}
