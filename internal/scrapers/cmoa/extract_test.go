package cmoa

import (
	"bytes"
	"strings"
	"testing"

	"cmoa-notion-sync/internal/components/telemetry"
	"cmoa-notion-sync/internal/genre"
	"cmoa-notion-sync/lib/dom"

	_ "embed"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/title_page.html
var titlePageTest []byte

var testPhrases = DefaultPromotionalPhrases()

func newTestExtractor(tel telemetry.API) Extractor {
	return NewExtractor(DefaultLayout(), testPhrases, genre.DefaultTable(), tel)
}

func attrs(kv ...string) map[string]string {
	out := map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = kv[i+1]
	}
	return out
}

func ldJson(payload string) *dom.Elem {
	return dom.E("script", attrs("type", "application/ld+json"), dom.T(payload))
}

func TestExtractTitlePage(t *testing.T) {
	doc, err := dom.Parse(bytes.NewReader(titlePageTest))
	require.NoError(t, err)

	result := newTestExtractor(&telemetry.Recorder{}).Extract(doc)

	expected := Result{
		Synopsis: "先生は\n恋をした。",
		Genres:   []string{"少年", "青年"},
		Magazine: "週刊少年テスト",
		Tags:     []string{"学園", "ラブコメ"},
	}
	if diff := cmp.Diff(expected, result); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestSynopsisStrategies(t *testing.T) {
	testCases := []struct {
		name     string
		doc      *dom.Elem
		expected string
	}{
		{
			name: "structured data wins over container",
			doc: dom.Doc(
				ldJson(`{"description":"構造化<br>データ"}`),
				dom.E("div", attrs("id", "comic_description"), dom.T("コンテナ")),
			),
			expected: "構造化\nデータ",
		},
		{
			name: "unparsable structured data falls back to container",
			doc: dom.Doc(
				ldJson(`{"description": broken`),
				dom.E("div", attrs("id", "comic_description"),
					dom.T("一行目"), dom.E("br", nil), dom.T("二行目 コミックシーモアなら期間限定1巻値引き！"),
				),
			),
			expected: "一行目\n二行目",
		},
		{
			name: "structured data without description falls back to container",
			doc: dom.Doc(
				ldJson(`{"@type":"Book","name":"x"}`),
				dom.E("div", attrs("class", "title_detail_text"), dom.T("  詳細テキスト  ")),
			),
			expected: "詳細テキスト",
		},
		{
			name: "description found in @graph",
			doc: dom.Doc(
				ldJson(`{"@graph":[{"@type":"WebPage"},{"@type":"Book","description":"グラフ"}]}`),
			),
			expected: "グラフ",
		},
		{
			name: "description found in array",
			doc: dom.Doc(
				ldJson(`[{"@type":"BreadcrumbList"},{"description":"配列"}]`),
			),
			expected: "配列",
		},
		{
			name: "description made only of promotion falls back",
			doc: dom.Doc(
				ldJson(`{"description":"コミックシーモアなら期間限定1巻無料！"}`),
				dom.E("div", attrs("id", "comic_description"), dom.T("本文")),
			),
			expected: "本文",
		},
		{
			name: "neither strategy",
			doc: dom.Doc(
				dom.E("div", attrs("class", "unrelated"), dom.T("関係ない")),
			),
			expected: "",
		},
	}

	for _, test := range testCases {
		tel := &telemetry.Recorder{}
		result := newTestExtractor(tel).Extract(test.doc)
		require.Equal(t, test.expected, result.Synopsis, test.name)
	}
}

func TestUnparsableStructuredDataIsWarning(t *testing.T) {
	tel := &telemetry.Recorder{}
	newTestExtractor(tel).Extract(dom.Doc(ldJson(`{not json`)))
	require.Len(t, tel.Reports("warning", report_extractor_structured_data), 1)
	require.Empty(t, tel.Reports("broken", ""))
}

func TestGenres(t *testing.T) {
	doc := dom.Doc(
		dom.E("div", attrs("class", "category_line_f_r_l"),
			dom.E("a", attrs("href", "/genre/01/"), dom.T("少年マンガ(1位)")),
			dom.E("a", attrs("href", "/genre/02/"), dom.T("青年マンガ")),
			dom.E("a", attrs("href", "/author/03/"), dom.T("作者名")),
			dom.E("a", attrs("href", "/genre/04/"), dom.T("ファンタジー（5位）")),
			dom.E("a", attrs("href", "/genre/01/"), dom.T("少年マンガ")),
		),
		// genre links outside of the container are ignored
		dom.E("a", attrs("href", "/genre/09/"), dom.T("女性マンガ")),
	)

	result := newTestExtractor(&telemetry.Recorder{}).Extract(doc)
	require.Equal(t, []string{"少年", "青年", "ファンタジー"}, result.Genres)
}

func TestMagazineFallback(t *testing.T) {
	testCases := []struct {
		name     string
		doc      *dom.Elem
		expected string
	}{
		{
			name: "breadcrumb magazine first",
			doc: dom.Doc(
				dom.E("span", attrs("class", "brCramb_m"), dom.E("a", attrs("href", "/magazine/1/"), dom.T("雑誌"))),
				dom.E("div", attrs("class", "category_line"), dom.E("a", attrs("href", "/publisher/1/"), dom.T("出版社"))),
			),
			expected: "雑誌",
		},
		{
			name: "publisher when no magazine",
			doc: dom.Doc(
				dom.E("span", attrs("class", "brCramb_m"), dom.E("a", attrs("href", "/author/1/"), dom.T("作者"))),
				dom.E("div", attrs("class", "category_line"),
					dom.E("span", nil, dom.E("a", attrs("href", "/publisher/1/"), dom.T(" 出版社 "))),
					dom.E("a", attrs("href", "/publisher/2/"), dom.T("別の出版社")),
				),
			),
			expected: "出版社",
		},
		{
			name: "magazine link must be a direct child of the breadcrumb",
			doc: dom.Doc(
				dom.E("span", attrs("class", "brCramb_m"),
					dom.E("em", nil, dom.E("a", attrs("href", "/magazine/1/"), dom.T("入れ子"))),
				),
			),
			expected: "",
		},
		{
			name:     "neither",
			doc:      dom.Doc(dom.E("p", nil, dom.T("なし"))),
			expected: "",
		},
	}

	for _, test := range testCases {
		result := newTestExtractor(&telemetry.Recorder{}).Extract(test.doc)
		require.Equal(t, test.expected, result.Magazine, test.name)
	}
}

func TestTags(t *testing.T) {
	testCases := []struct {
		name     string
		doc      *dom.Elem
		expected []string
	}{
		{
			name: "caption with empty container",
			doc: dom.Doc(
				dom.E("dl", nil, dom.E("dt", nil, dom.T("タグ")), dom.E("dd", nil)),
			),
			expected: []string{},
		},
		{
			name: "caption without sibling",
			doc: dom.Doc(
				dom.E("dl", nil, dom.E("dt", nil, dom.T("タグ"))),
			),
			expected: []string{},
		},
		{
			name: "wrapped caption",
			doc: dom.Doc(
				dom.E("dl", nil,
					dom.E("dt", nil, dom.E("span", nil, dom.T("タグ"))),
					dom.E("dd", nil, dom.E("a", nil, dom.T("学園")), dom.E("a", nil, dom.T("ラブコメ"))),
				),
			),
			expected: []string{"学園", "ラブコメ"},
		},
		{
			name:     "no caption",
			doc:      dom.Doc(dom.E("dd", nil, dom.E("a", nil, dom.T("学園")))),
			expected: []string{},
		},
		{
			name: "caption must match exactly",
			doc: dom.Doc(
				dom.E("dl", nil,
					dom.E("dt", nil, dom.T("タグ一覧")), dom.E("dd", nil, dom.E("a", nil, dom.T("違う"))),
				),
			),
			expected: []string{},
		},
		{
			name: "text between label and container is skipped",
			doc: dom.Doc(
				dom.E("div", nil,
					dom.E("span", nil, dom.T(" タグ ")),
					dom.T("\n"),
					dom.E("ul", nil,
						dom.E("li", nil, dom.E("a", nil, dom.T("学園"))),
						dom.E("li", nil, dom.E("a", nil, dom.T("ラブコメ"))),
						dom.E("li", nil, dom.E("a", nil, dom.T("学園"))),
					),
				),
			),
			expected: []string{"学園", "ラブコメ"},
		},
	}

	for _, test := range testCases {
		result := newTestExtractor(&telemetry.Recorder{}).Extract(test.doc)
		require.Equal(t, test.expected, result.Tags, test.name)
	}
}

func TestTagsWrappedCaption(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(
		`<html><body><dl><dt><span>タグ</span></dt><dd><a>学園</a><a>ラブコメ</a></dd></dl></body></html>`,
	))
	require.NoError(t, err)

	result := newTestExtractor(&telemetry.Recorder{}).Extract(doc)
	require.Equal(t, []string{"学園", "ラブコメ"}, result.Tags)
}
