package textutil

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var promotional = []string{
	"コミックシーモアなら期間限定1巻無料！",
	"コミックシーモアなら期間限定1巻立読み増量中！",
	"コミックシーモアなら期間限定1巻値引き！",
}

func TestNormalizeSynopsis(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{
			in:       "先生は<br>恋をした。コミックシーモアなら期間限定1巻無料！",
			expected: "先生は\n恋をした。",
		},
		{
			in:       "  一行目<br/>二行目<BR />三行目  ",
			expected: "一行目\n二行目\n三行目",
		},
		{
			in:       "コミックシーモアなら期間限定1巻値引き！",
			expected: "",
		},
		{
			in:       "コミックシーモアなら期間限定1巻無料",
			expected: "コミックシーモアなら期間限定1巻無料",
		},
		{
			in:       "",
			expected: "",
		},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeSynopsis(test.in, promotional), test.in)
	}
}

func TestStripPromotionalCaseSensitive(t *testing.T) {
	require.Equal(t, "Free Trial", StripPromotional("Free Trial", []string{"free trial"}))
	require.Equal(t, "", StripPromotional("free trial", []string{"free trial"}))
}

func TestStripPromotionalIdempotent(t *testing.T) {
	phrases := []string{"ab", "cd", "abc"}
	fixed := []string{"aabb", "acdb", "abcabc", "xyz", "aabcbc", ""}
	for _, s := range fixed {
		once := StripPromotional(s, phrases)
		require.Equal(t, once, StripPromotional(once, phrases), s)
	}

	rndm := rand.New(rand.NewSource(42))
	for range 500 {
		length := rndm.Intn(24)
		var b strings.Builder
		for range length {
			b.WriteByte("abcd"[rndm.Intn(4)])
		}
		s := b.String()
		once := StripPromotional(s, phrases)
		require.Equal(t, once, StripPromotional(once, phrases), s)
	}
}

func TestCleanGenreLabel(t *testing.T) {
	require.Equal(t, "少年マンガ", CleanGenreLabel("少年マンガ(1位)"))
	require.Equal(t, "少年マンガ", CleanGenreLabel(" 少年マンガ （12位）"))
	require.Equal(t, "青年マンガ", CleanGenreLabel("青年マンガ"))
	require.Equal(t, "", CleanGenreLabel("(1位)"))
}

func TestDedupOrdered(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, DedupOrdered([]string{"a", "b", "a", "c"}))
	require.Equal(t, []string{"c", "a", "b"}, DedupOrdered([]string{"c", "a", "c", "b", "a"}))
	require.Equal(t, []string{}, DedupOrdered([]string{}))
	require.Nil(t, DedupOrdered(nil))
}
