package dataload

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hspanel/internal/errors"
	"hspanel/pkg/contracts/domain"
)

func TestLoadDictionaryMapShape(t *testing.T) {
	json := `{"0101": "Horses, asses, mules", "8703": "Cars", "101": "Shadowed by 0101"}`

	loader := NewLoader(nil)
	entries, err := loader.LoadDictionary(context.Background(), writeFixture(t, "dict.json", json))
	require.NoError(t, err)

	// "101" normalizes to "0101" and collapses into it; raw keys are taken
	// in sorted order, so the "0101" label wins deterministically.
	require.Len(t, entries, 2)
	assert.Equal(t, "0101", entries[0].Code)
	assert.Equal(t, "Horses, asses, mules", entries[0].Label)
	assert.Equal(t, "8703", entries[1].Code)
}

func TestLoadDictionaryArrayShape(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantCode  string
		wantLabel string
	}{
		{
			name:      "code and label keys",
			json:      `[{"code": "0101", "label": "Horses"}]`,
			wantCode:  "0101",
			wantLabel: "Horses",
		},
		{
			name:      "name key drift",
			json:      `[{"code": "0101", "name": "Horses"}]`,
			wantCode:  "0101",
			wantLabel: "Horses",
		},
		{
			name:      "description key drift",
			json:      `[{"hs4": "101", "description": "Horses"}]`,
			wantCode:  "0101",
			wantLabel: "Horses",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(nil)
			entries, err := loader.LoadDictionary(context.Background(), writeFixture(t, "dict.json", tt.json))
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantCode, entries[0].Code)
			assert.Equal(t, tt.wantLabel, entries[0].Label)
		})
	}
}

func TestLoadDictionaryArrayDedupe(t *testing.T) {
	json := `[
		{"code": "0101", "label": "first"},
		{"code": "0101", "label": "second"},
		{"code": "8703", "label": "Cars"}
	]`

	loader := NewLoader(nil)
	entries, err := loader.LoadDictionary(context.Background(), writeFixture(t, "dict.json", json))
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Label, "first occurrence wins")
}

func TestLoadDictionaryMalformed(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.LoadDictionary(context.Background(), writeFixture(t, "dict.json", `"just a string"`))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestLoadDictionaryMissingFile(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.LoadDictionary(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingInput))
}

func TestDictionaryMap(t *testing.T) {
	entries := []domain.DictionaryEntry{
		{Code: "0101", Label: "Horses"},
		{Code: "0101", Label: "Duplicate"},
		{Code: "8703", Label: "Cars"},
	}
	m := DictionaryMap(entries)
	assert.Len(t, m, 2)
	assert.Equal(t, "Horses", m["0101"])
}
