package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyText(t *testing.T, rawHTML string, max int) string {
	t.Helper()
	doc, err := NewDocument(rawHTML)
	require.NoError(t, err)
	return visibleText(doc.Body(), max)
}

func TestVisibleText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "collapses inline whitespace",
			html: "<body><span>Hello</span>   <b>big\n\tworld</b></body>",
			want: "Hello big world",
		},
		{
			name: "paragraphs separated by blank line",
			html: "<body><p>first</p><p>second</p></body>",
			want: "first\n\nsecond",
		},
		{
			name: "divs separated by newline",
			html: "<body><div>one</div><div>two</div></body>",
			want: "one\ntwo",
		},
		{
			name: "br breaks line",
			html: "<body>a<br>b</body>",
			want: "a\nb",
		},
		{
			name: "skips script and style",
			html: "<body><script>var x = 1;</script><style>p{}</style>visible</body>",
			want: "visible",
		},
		{
			name: "skips hidden elements",
			html: `<body><div hidden>secret</div><span style="display: none">gone</span>shown</body>`,
			want: "shown",
		},
		{
			name: "keeps pre formatting",
			html: "<body><pre>a  b\n c</pre></body>",
			want: "a  b\n c",
		},
		{
			name: "empty body",
			html: "<body>   </body>",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bodyText(t, tt.html, 0))
		})
	}
}

func TestVisibleText_Truncates(t *testing.T) {
	assert.Equal(t, "héll", bodyText(t, "<body>héllo world</body>", 4))
	assert.Equal(t, "short", bodyText(t, "<body>short</body>", 100))
}

func TestVisibleText_NilBody(t *testing.T) {
	assert.Equal(t, "", visibleText(nil, 10))
}
