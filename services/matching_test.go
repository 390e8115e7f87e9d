package services

import (
	"testing"

	"rentalsync/dto"
	"rentalsync/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "can ho bien dong", normalizeName("  Căn hộ  Biển Đông "))
	assert.Equal(t, "seaside cottage", normalizeName("Seaside Cottage"))
	assert.Equal(t, "", normalizeName("   "))
}

func TestNameSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, nameSimilarity("seaside cottage", "seaside cottage"))
	assert.Equal(t, 1.0, nameSimilarity("", ""))
	assert.Less(t, nameSimilarity("seaside cottage", "downtown loft"), matchThreshold)
}

func TestSuggestPropertyMatches(t *testing.T) {
	properties := []models.Property{
		{ID: 1, Name: "Seaside Cottage"},
		{ID: 2, Name: "Căn hộ Biển Đông"},
		{ID: 3, Name: "Downtown Loft 4B"},
	}
	remote := []dto.RemoteListingSummary{
		{ExternalID: "a", Name: "Seaside Cottage"},
		// dấu tiếng Việt không cản so khớp
		{ExternalID: "b", Name: "Can ho Bien Dong"},
		// tên lệch nhẹ vẫn khớp
		{ExternalID: "c", Name: "Downtown Loft 4b "},
		// không giống gì thì không gợi ý
		{ExternalID: "d", Name: "Mountain Chalet Deluxe Retreat"},
	}

	out := SuggestPropertyMatches(remote, properties)
	require.Len(t, out, 4)

	require.NotNil(t, out[0].SuggestedPropertyID)
	assert.EqualValues(t, 1, *out[0].SuggestedPropertyID)
	assert.Equal(t, "Seaside Cottage", out[0].SuggestedName)

	require.NotNil(t, out[1].SuggestedPropertyID)
	assert.EqualValues(t, 2, *out[1].SuggestedPropertyID)

	require.NotNil(t, out[2].SuggestedPropertyID)
	assert.EqualValues(t, 3, *out[2].SuggestedPropertyID)

	assert.Nil(t, out[3].SuggestedPropertyID)
}

func TestSuggestPropertyMatchesNoProperties(t *testing.T) {
	remote := []dto.RemoteListingSummary{{ExternalID: "a", Name: "Anything"}}
	out := SuggestPropertyMatches(remote, nil)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].SuggestedPropertyID)
}
