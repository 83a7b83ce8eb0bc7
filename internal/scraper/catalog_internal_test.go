package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

func firstImg(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Find("img").First()
}

func TestSafeImage(t *testing.T) {
	t.Parallel()

	const base = "https://www.atbmarket.com"

	tests := []struct {
		name string
		html string
		want string
	}{
		{name: "absolute src", html: `<img src="https://cdn.test/a.jpg">`, want: "https://cdn.test/a.jpg"},
		{name: "protocol relative", html: `<img src="//cdn.test/a.jpg">`, want: "https://cdn.test/a.jpg"},
		{name: "root relative", html: `<img src="/img/a.jpg">`, want: "https://www.atbmarket.com/img/a.jpg"},
		{name: "data uri falls through to data-src", html: `<img src="data:image/png;base64,AAAA" data-src="https://cdn.test/b.jpg">`, want: "https://cdn.test/b.jpg"},
		{name: "data-lazy", html: `<img data-lazy="https://cdn.test/c.jpg">`, want: "https://cdn.test/c.jpg"},
		{name: "placeholder rejected", html: `<img src="https://cdn.test/placeholder.svg">`, want: domain.PlaceholderImage},
		{name: "no-photo rejected", html: `<img src="https://cdn.test/no-photo.png">`, want: domain.PlaceholderImage},
		{name: "non http scheme", html: `<img src="blob:abc">`, want: domain.PlaceholderImage},
		{name: "no image", html: `<div></div>`, want: domain.PlaceholderImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, safeImage(firstImg(t, tt.html), base))
		})
	}
}

func TestCardLink(t *testing.T) {
	t.Parallel()

	const (
		base = "https://silpo.ua"
		page = "https://silpo.ua/category/1"
	)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<a class="card" id="self" href="/product/1">x</a>
		<div class="card" id="nested"><a href="https://silpo.ua/product/2">y</a></div>
		<div class="card" id="none">z</div>
		<div class="card" id="js"><a href="javascript:void(0)">w</a></div>`))
	require.NoError(t, err)

	assert.Equal(t, "https://silpo.ua/product/1", cardLink(doc.Find("#self"), base, page))
	assert.Equal(t, "https://silpo.ua/product/2", cardLink(doc.Find("#nested"), base, page))
	assert.Equal(t, page, cardLink(doc.Find("#none"), base, page))
	assert.Equal(t, page, cardLink(doc.Find("#js"), base, page))
}

func TestCardError_Unwrap(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, &cardError{reason: skipMissingPrice}, ErrMalformed)
	assert.NotErrorIs(t, &cardError{reason: skipOutOfStock}, ErrMalformed)
}
