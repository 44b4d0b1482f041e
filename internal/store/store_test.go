package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsCandidate(t *testing.T) {
	testCases := []struct {
		record   CatalogRecord
		expected bool
	}{
		{record: CatalogRecord{URL: "https://www.cmoa.jp/title/1/"}, expected: true},
		{record: CatalogRecord{URL: "https://www.cmoa.jp/title/1/", Genres: []string{"少年"}}, expected: true},
		{record: CatalogRecord{URL: "https://www.cmoa.jp/title/1/", Synopsis: "あらすじ"}, expected: false},
		{record: CatalogRecord{Synopsis: "あらすじ"}, expected: false},
		{record: CatalogRecord{}, expected: false},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, IsCandidate(test.record), test.record)
	}
}
