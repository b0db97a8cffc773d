package digest

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"
)

//go:embed digest.tmpl
var digestTpl string

// html/template rather than text/template: every string in the digest
// came off someone else's page.
var compiled = template.Must(template.New("digest").Funcs(template.FuncMap{
	"imgsrc": imgSrc,
}).Parse(digestTpl))

// imgSrc lets inlined image data URIs through, which the URL escaper
// would otherwise reject. Everything else stays a plain string and gets
// the standard filtering, so a scraped javascript: URL still dies.
func imgSrc(s string) any {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return s
}

// Render produces the newsletter HTML for a digest.
func Render(d Digest) (string, error) {
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
