package postgres

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
)

func TestMarshalVocabulary_RoundTrip(t *testing.T) {
	addedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []member.VocabularyEntry{
		{Word: "serendipity", AddedBy: "123456789012345678", AddedAt: addedAt},
		{Word: "ephemeral", AddedAt: addedAt.Add(time.Hour)},
	}

	data, err := marshalVocabulary(entries)
	require.NoError(t, err)

	decoded, err := unmarshalVocabulary(data)
	require.NoError(t, err)
	assert.Equal(t, entries, decoded)
}

func TestMarshalVocabulary_EmptySliceIsJSONArray(t *testing.T) {
	data, err := marshalVocabulary(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestMarshalVocabulary_OmitsEmptyAddedBy(t *testing.T) {
	addedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	data, err := marshalVocabulary([]member.VocabularyEntry{
		{Word: "laconic", AddedAt: addedAt},
	})
	require.NoError(t, err)

	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)

	assert.Contains(t, raw[0], "word")
	assert.Contains(t, raw[0], "added_at")
	assert.NotContains(t, raw[0], "added_by")
}

func TestUnmarshalVocabulary_EmptyInput(t *testing.T) {
	decoded, err := unmarshalVocabulary(nil)
	require.NoError(t, err)
	assert.Nil(t, decoded)

	decoded, err = unmarshalVocabulary([]byte("[]"))
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestUnmarshalVocabulary_InvalidJSON(t *testing.T) {
	_, err := unmarshalVocabulary([]byte("{not json"))
	assert.Error(t, err)
}

func TestUnmarshalVocabulary_PreservesOrder(t *testing.T) {
	data := []byte(`[
		{"word": "alpha", "added_at": "2025-01-01T00:00:00Z"},
		{"word": "beta", "added_by": "42", "added_at": "2025-01-02T00:00:00Z"},
		{"word": "gamma", "added_at": "2025-01-03T00:00:00Z"}
	]`)

	decoded, err := unmarshalVocabulary(data)
	require.NoError(t, err)
	require.Len(t, decoded, 3)

	assert.Equal(t, "alpha", decoded[0].Word)
	assert.Equal(t, "beta", decoded[1].Word)
	assert.Equal(t, "42", decoded[1].AddedBy)
	assert.Equal(t, "gamma", decoded[2].Word)
}
