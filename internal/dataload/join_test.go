package dataload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hspanel/pkg/contracts/domain"
)

func TestAttachLabels(t *testing.T) {
	records := []domain.TradeRecord{
		{ProductCode: "0101", Year: 1995},
		{ProductCode: "0101", Year: 1997},
		{ProductCode: "8703", Year: 1995},
		{ProductCode: "9999", Year: 1996},
		{ProductCode: "9999", Year: 1995},
	}
	entries := []domain.DictionaryEntry{
		{Code: "0101", Label: "Horses"},
		{Code: "8703", Label: "Cars"},
	}

	labeled, unlabeled := AttachLabels(records, entries)

	require.Len(t, labeled, 5)
	assert.Equal(t, "Horses", labeled[0].Label)
	assert.Equal(t, "Cars", labeled[2].Label)
	assert.Equal(t, "", labeled[3].Label)

	require.Len(t, unlabeled, 1)
	assert.Equal(t, "9999", unlabeled[0].ProductCode)
	assert.Equal(t, []int{1995, 1996}, unlabeled[0].Years, "years sorted ascending")
}

func TestAttachLabelsAllCovered(t *testing.T) {
	records := []domain.TradeRecord{{ProductCode: "0101", Year: 1995}}
	entries := []domain.DictionaryEntry{{Code: "0101", Label: "Horses"}}

	_, unlabeled := AttachLabels(records, entries)
	assert.Empty(t, unlabeled)
}

func TestMissingFromYear(t *testing.T) {
	records := []domain.TradeRecord{
		{ProductCode: "0101", Year: 1995},
		{ProductCode: "8703", Year: 1996},
	}
	entries := []domain.DictionaryEntry{
		{Code: "0101", Label: "Horses"},
		{Code: "8703", Label: "Cars"},
		{Code: "0202", Label: "Meat"},
	}

	missing := MissingFromYear(entries, records, 1995)

	require.Len(t, missing, 2)
	assert.Equal(t, "0202", missing[0].Code)
	assert.Equal(t, "8703", missing[1].Code)
	assert.Equal(t, "Cars", missing[1].Label)
}
