// Package markup generates the HTML shown in each region.
package markup

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/nikbrunner/forkify/internal/model"
)

// PageInfo is the pagination projection of a search.
type PageInfo struct {
	Page  int
	Pages int
}

// Spinner returns the loading indicator.
func Spinner() string {
	return `<div class="spinner"><span class="spinner__icon">loading</span></div>`
}

// Error returns an error notice.
func Error(message string) string {
	return fmt.Sprintf(`<div class="error"><span class="error__icon">!</span><p>%s</p></div>`,
		html.EscapeString(message))
}

// Message returns an informational notice.
func Message(message string) string {
	return fmt.Sprintf(`<div class="message"><span class="message__icon">*</span><p>%s</p></div>`,
		html.EscapeString(message))
}

// Recipe returns the recipe detail view. The structure does not depend on
// servings or bookmark state, so those changes can be patched in place.
func Recipe(r model.Recipe) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<figure class="recipe__fig"><img src="%s" alt="%s" class="recipe__img"/>`,
		html.EscapeString(r.ImageURL), html.EscapeString(r.Title))
	fmt.Fprintf(&b, `<h1 class="recipe__title"><span>%s</span></h1></figure>`, html.EscapeString(r.Title))

	b.WriteString(`<div class="recipe__details">`)
	fmt.Fprintf(&b, `<div class="recipe__info"><span class="recipe__info-data recipe__info-data--minutes">%d</span>`+
		`<span class="recipe__info-text">minutes</span></div>`, r.CookingTime)
	fmt.Fprintf(&b, `<div class="recipe__info"><span class="recipe__info-data recipe__info-data--people">%d</span>`+
		`<span class="recipe__info-text">servings</span>`, r.Servings)
	b.WriteString(`<div class="recipe__info-buttons">`)
	fmt.Fprintf(&b, `<button class="btn--tiny btn--update-servings" data-update-to="%d">-</button>`, r.Servings-1)
	fmt.Fprintf(&b, `<button class="btn--tiny btn--update-servings" data-update-to="%d">+</button>`, r.Servings+1)
	b.WriteString(`</div></div>`)
	fmt.Fprintf(&b, `<div class="recipe__user-generated%s">user</div>`, hiddenUnless(r.IsUserRecipe()))

	bookmarkIcon := "bookmark"
	if r.Bookmarked {
		bookmarkIcon = "bookmark-fill"
	}
	fmt.Fprintf(&b, `<button class="btn--round btn--bookmark" data-bookmarked="%t">`+
		`<span class="recipe__bookmark">%s</span></button>`, r.Bookmarked, bookmarkIcon)
	b.WriteString(`</div>`)

	b.WriteString(`<div class="recipe__ingredients"><h2 class="heading--2">Recipe ingredients</h2>`)
	b.WriteString(`<ul class="recipe__ingredient-list">`)
	for _, ing := range r.Ingredients {
		writeIngredient(&b, ing)
	}
	b.WriteString(`</ul></div>`)

	b.WriteString(`<div class="recipe__directions"><h2 class="heading--2">How to cook it</h2>`)
	fmt.Fprintf(&b, `<p class="recipe__directions-text">This recipe was carefully designed and tested by `+
		`<span class="recipe__publisher">%s</span>. Please check out directions at their website.</p>`,
		html.EscapeString(r.Publisher))
	fmt.Fprintf(&b, `<a class="btn--small recipe__btn" href="%s" target="_blank"><span>Directions</span></a>`,
		html.EscapeString(r.SourceURL))
	b.WriteString(`</div>`)

	return b.String()
}

func writeIngredient(b *strings.Builder, ing model.Ingredient) {
	b.WriteString(`<li class="recipe__ingredient">`)
	fmt.Fprintf(b, `<span class="recipe__quantity">%s</span>`, FormatQuantity(ing.Quantity))
	fmt.Fprintf(b, `<div class="recipe__description"><span class="recipe__unit">%s</span> %s</div>`,
		html.EscapeString(ing.Unit), html.EscapeString(ing.Description))
	b.WriteString(`</li>`)
}

// Results returns the search result previews. The preview whose id is
// activeID is marked active.
func Results(results []model.SearchResult, activeID string) string {
	var b strings.Builder
	for _, r := range results {
		writePreview(&b, r, activeID)
	}
	return b.String()
}

// Bookmarks returns the bookmark previews, sharing the search result markup.
func Bookmarks(bookmarks []model.Recipe, activeID string) string {
	var b strings.Builder
	for _, r := range bookmarks {
		writePreview(&b, r.Summary(), activeID)
	}
	return b.String()
}

func writePreview(b *strings.Builder, r model.SearchResult, activeID string) {
	active := ""
	if r.ID == activeID {
		active = " preview__link--active"
	}
	id := html.EscapeString(r.ID)
	fmt.Fprintf(b, `<li class="preview" data-key="%s">`, id)
	fmt.Fprintf(b, `<a class="preview__link%s" href="#%s">`, active, id)
	fmt.Fprintf(b, `<figure class="preview__fig"><img src="%s" alt="%s"/></figure>`,
		html.EscapeString(r.ImageURL), html.EscapeString(r.Title))
	b.WriteString(`<div class="preview__data">`)
	fmt.Fprintf(b, `<h4 class="preview__title">%s</h4>`, html.EscapeString(r.Title))
	fmt.Fprintf(b, `<p class="preview__publisher">%s</p>`, html.EscapeString(r.Publisher))
	fmt.Fprintf(b, `<div class="preview__user-generated%s">user</div>`, hiddenUnless(r.Key != nil && *r.Key != ""))
	b.WriteString(`</div></a></li>`)
}

// Pagination returns the previous/next page buttons. A single page has
// no buttons.
func Pagination(p PageInfo) string {
	var b strings.Builder
	if p.Page > 1 && p.Page <= p.Pages {
		fmt.Fprintf(&b, `<button data-goto="%d" class="btn--inline pagination__btn--prev"><span>Page %d</span></button>`,
			p.Page-1, p.Page-1)
	}
	if p.Page < p.Pages {
		fmt.Fprintf(&b, `<button data-goto="%d" class="btn--inline pagination__btn--next"><span>Page %d</span></button>`,
			p.Page+1, p.Page+1)
	}
	return b.String()
}

// FormatQuantity renders a quantity as a mixed fraction where one is
// close enough, e.g. 1.5 as "1 1/2". A nil quantity is rendered empty.
func FormatQuantity(q *float64) string {
	if q == nil {
		return ""
	}
	v := *q
	if v < 0 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	whole := math.Floor(v)
	frac := v - whole
	if frac < 0.01 {
		return strconv.Itoa(int(whole))
	}
	if frac > 0.99 {
		return strconv.Itoa(int(whole) + 1)
	}

	for _, den := range []int{2, 3, 4, 8} {
		num := math.Round(frac * float64(den))
		if num <= 0 || int(num) >= den || math.Abs(frac-num/float64(den)) >= 0.01 {
			continue
		}
		if whole == 0 {
			return fmt.Sprintf("%d/%d", int(num), den)
		}
		return fmt.Sprintf("%d %d/%d", int(whole), int(num), den)
	}

	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func hiddenUnless(visible bool) string {
	if visible {
		return ""
	}
	return " hidden"
}
