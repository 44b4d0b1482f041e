package cmoa

import "cmoa-notion-sync/lib/dom"

// Layout describes where each field lives on a title page.
type Layout struct {
	// StructuredData matches the embedded JSON-LD blocks.
	StructuredData dom.Matcher
	// DescriptionContainers are tried in order when no JSON-LD description exists.
	DescriptionContainers []dom.Matcher

	GenreContainer dom.Matcher
	GenreLink      dom.Matcher

	// MagazineLink must be a direct child of MagazineBreadcrumb.
	MagazineBreadcrumb dom.Matcher
	MagazineLink       dom.Matcher
	// PublisherLink may be anywhere inside CategoryLine.
	CategoryLine  dom.Matcher
	PublisherLink dom.Matcher

	TagCaption string
	TagLabel   dom.Matcher
	TagLink    dom.Matcher
}

func DefaultLayout() Layout {
	return Layout{
		StructuredData: dom.Matcher{Tag: "script", Attr: "type", AttrEquals: "application/ld+json"},
		DescriptionContainers: []dom.Matcher{
			{ID: "comic_description"},
			{Class: "title_detail_text"},
		},

		GenreContainer: dom.Matcher{Class: "category_line_f_r_l"},
		GenreLink:      dom.Matcher{Tag: "a", Attr: "href", AttrContains: "/genre/"},

		MagazineBreadcrumb: dom.Matcher{Tag: "span", Class: "brCramb_m"},
		MagazineLink:       dom.Matcher{Tag: "a", Attr: "href", AttrContains: "/magazine/"},
		CategoryLine:       dom.Matcher{Class: "category_line"},
		PublisherLink:      dom.Matcher{Tag: "a", Attr: "href", AttrContains: "/publisher/"},

		TagCaption: "タグ",
		TagLink:    dom.Matcher{Tag: "a"},
	}
}

// DefaultPromotionalPhrases are the campaign banners cmoa.jp appends to
// title descriptions.
func DefaultPromotionalPhrases() []string {
	return []string{
		"コミックシーモアなら期間限定1巻無料！",
		"コミックシーモアなら期間限定1巻立読み増量中！",
		"コミックシーモアなら期間限定1巻値引き！",
	}
}
