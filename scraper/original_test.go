package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const originalPage = `
<html>
	<body>
		<h1>靜夜思</h1>
		<p class="source">
			<span itemprop="dateCreated"> 唐代 </span>
			<span itemprop="author"><a href="/authors/1"><span itemprop="name"> 李白 </span></a></span>
		</p>
		<div class="content">
			<p>床前明月光，疑是地上霜。</p>
			<p>
				舉頭望明月，<br>
				低頭思故鄉。
			</p>
		</div>
	</body>
</html>
`

// TestParseOriginalPage_Complete verifies body, author and era extraction
func TestParseOriginalPage_Complete(t *testing.T) {
	doc := mustDocument(t, originalPage)

	extract := ParseOriginalPage(doc, DefaultConfig().Original)
	require.NotNil(t, extract)

	assert.Equal(t, "床前明月光，疑是地上霜。舉頭望明月，低頭思故鄉。", extract.BodyText,
		"text nodes should be trimmed and joined with no separator")
	assert.Equal(t, "李白", extract.Author)
	assert.Equal(t, "唐代", extract.Era)
}

// TestParseOriginalPage_MissingElements verifies absent nodes become empty
// strings
func TestParseOriginalPage_MissingElements(t *testing.T) {
	doc := mustDocument(t, `<html><body><p>nothing here</p></body></html>`)

	extract := ParseOriginalPage(doc, DefaultConfig().Original)
	require.NotNil(t, extract)

	assert.Equal(t, "", extract.BodyText)
	assert.Equal(t, "", extract.Author)
	assert.Equal(t, "", extract.Era)
}

// TestParseOriginalPage_AuthorNeedsNamePath verifies a bare author marker
// without a name node is not used
func TestParseOriginalPage_AuthorNeedsNamePath(t *testing.T) {
	doc := mustDocument(t, `<html><body><span itemprop="author">李白</span></body></html>`)

	extract := ParseOriginalPage(doc, DefaultConfig().Original)

	assert.Empty(t, extract.Author)
}

// TestParseOriginalPage_FirstContentOnly verifies only the first content
// container is read
func TestParseOriginalPage_FirstContentOnly(t *testing.T) {
	doc := mustDocument(t, `<html><body>
		<div class="content">甲 <b>乙</b></div>
		<div class="content">丙</div>
	</body></html>`)

	extract := ParseOriginalPage(doc, DefaultConfig().Original)

	assert.Equal(t, "甲乙", extract.BodyText)
}

// TestParseOriginalPage_SkipsScriptAndStyle verifies embedded code is not
// body text
func TestParseOriginalPage_SkipsScriptAndStyle(t *testing.T) {
	doc := mustDocument(t, `<html><body>
		<div class="content">
			<style>.x { color: red; }</style>
			<p>床前明月光，</p>
			<script>var ad = "廣告";</script>
			<p>疑是地上霜。</p>
		</div>
	</body></html>`)

	extract := ParseOriginalPage(doc, DefaultConfig().Original)

	assert.Equal(t, "床前明月光，疑是地上霜。", extract.BodyText)
}

// TestParseOriginalPage_Idempotent verifies repeated parses agree
func TestParseOriginalPage_Idempotent(t *testing.T) {
	doc := mustDocument(t, originalPage)
	cfg := DefaultConfig().Original

	assert.Equal(t, ParseOriginalPage(doc, cfg), ParseOriginalPage(doc, cfg))
}
