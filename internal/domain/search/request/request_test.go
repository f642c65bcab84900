package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
)

func TestNewQuery_Valid(t *testing.T) {
	q, err := NewQuery("Beatles")
	require.NoError(t, err)
	assert.Equal(t, "Beatles", q.Text())
}

func TestNewQuery_Empty(t *testing.T) {
	_, err := NewQuery("")

	require.ErrorIs(t, err, domain.ErrValidation)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "query", ve.Field)
	assert.Equal(t, "Query parameter is required", ve.Message)
}

func TestNewQuery_WhitespaceIsKept(t *testing.T) {
	q, err := NewQuery("  ")
	require.NoError(t, err)
	assert.Equal(t, "  ", q.Text())
}

func TestUnifiedPolicy(t *testing.T) {
	p := Unified(true)

	assert.Equal(t, 5, p.Limit())
	assert.False(t, p.HasThreshold(), "unified policy must not threshold")
	assert.True(t, p.Enrich())
}

func TestScopedPolicy(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      float64
	}{
		{"albums", AlbumThreshold, 0.5},
		{"songs", SongThreshold, 0.5},
		{"artists", ArtistThreshold, 0.75},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Scoped(tc.threshold, false)

			assert.Equal(t, 20, p.Limit())
			assert.True(t, p.HasThreshold())
			assert.Equal(t, tc.want, p.Threshold())
		})
	}
}
