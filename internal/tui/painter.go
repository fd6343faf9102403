package tui

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nikbrunner/forkify/internal/render"
	"golang.org/x/net/html"
)

// NoticeKind is the kind of notice a region can show instead of content.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeSpinner
	NoticeError
	NoticeMessage
)

// Notice is a spinner, error or message shown in a region.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Preview is one entry of the results or bookmarks list.
type Preview struct {
	ID        string
	Title     string
	Publisher string
	Active    bool
	User      bool
}

// RecipeCard is the recipe region content, as read from its live markup.
type RecipeCard struct {
	Title        string
	Publisher    string
	SourceURL    string
	Minutes      string
	Servings     string
	Bookmarked   bool
	User         bool
	Ingredients  []string
	ServingsDown int // data-update-to of the "-" button
	ServingsUp   int // data-update-to of the "+" button
}

// readRegion parses the live content of r.
func readRegion(r *render.Region) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(r.HTML()))
	if err != nil {
		// html.Parse only fails on reader errors
		return goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return doc
}

func readNotice(doc *goquery.Document) Notice {
	switch {
	case doc.Find(".spinner").Length() > 0:
		return Notice{Kind: NoticeSpinner}
	case doc.Find(".error").Length() > 0:
		return Notice{Kind: NoticeError, Text: doc.Find(".error p").Text()}
	case doc.Find(".message").Length() > 0:
		return Notice{Kind: NoticeMessage, Text: doc.Find(".message p").Text()}
	}
	return Notice{}
}

// ReadPreviews returns the previews shown in a results or bookmarks region.
func ReadPreviews(r *render.Region) ([]Preview, Notice) {
	doc := readRegion(r)
	if n := readNotice(doc); n.Kind != NoticeNone {
		return nil, n
	}

	var previews []Preview
	doc.Find(".preview").Each(func(_ int, s *goquery.Selection) {
		link := s.Find(".preview__link")
		previews = append(previews, Preview{
			ID:        s.AttrOr("data-key", strings.TrimPrefix(link.AttrOr("href", ""), "#")),
			Title:     s.Find(".preview__title").Text(),
			Publisher: s.Find(".preview__publisher").Text(),
			Active:    link.HasClass("preview__link--active"),
			User:      !s.Find(".preview__user-generated").HasClass("hidden"),
		})
	})
	return previews, Notice{}
}

// ReadRecipe returns the recipe shown in the recipe region. ok is false
// when the region shows a notice or nothing.
func ReadRecipe(r *render.Region) (card RecipeCard, notice Notice, ok bool) {
	doc := readRegion(r)
	if n := readNotice(doc); n.Kind != NoticeNone {
		return RecipeCard{}, n, false
	}
	if doc.Find(".recipe__title").Length() == 0 {
		return RecipeCard{}, Notice{}, false
	}

	card = RecipeCard{
		Title:      strings.TrimSpace(doc.Find(".recipe__title").Text()),
		Publisher:  doc.Find(".recipe__publisher").Text(),
		SourceURL:  doc.Find(".recipe__btn").AttrOr("href", ""),
		Minutes:    doc.Find(".recipe__info-data--minutes").Text(),
		Servings:   doc.Find(".recipe__info-data--people").Text(),
		Bookmarked: doc.Find(".btn--bookmark").AttrOr("data-bookmarked", "") == "true",
		User:       !doc.Find(".recipe__user-generated").HasClass("hidden"),
	}

	buttons := doc.Find(".btn--update-servings")
	card.ServingsDown = atoiOr(buttons.Eq(0).AttrOr("data-update-to", ""), 0)
	card.ServingsUp = atoiOr(buttons.Eq(1).AttrOr("data-update-to", ""), 0)

	doc.Find(".recipe__ingredient").Each(func(_ int, s *goquery.Selection) {
		line := s.Find(".recipe__quantity").Text() + " " + s.Find(".recipe__description").Text()
		card.Ingredients = append(card.Ingredients, strings.Join(strings.Fields(line), " "))
	})

	return card, Notice{}, true
}

// ReadPagination returns the target pages of the pagination buttons,
// 0 when a button is absent.
func ReadPagination(r *render.Region) (prev, next int) {
	doc := readRegion(r)
	prev = atoiOr(doc.Find(".pagination__btn--prev").AttrOr("data-goto", ""), 0)
	next = atoiOr(doc.Find(".pagination__btn--next").AttrOr("data-goto", ""), 0)
	return prev, next
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
