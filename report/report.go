// Package report renders probe results as a self-contained HTML page that
// pairs every link with its status and an http.cat illustration.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lukemcguire/statuscat/result"
)

const (
	// DefaultTitle is used when Options.Title is empty.
	DefaultTitle = "Links and HTTP Status"
	// DefaultImageBaseURL hosts one illustration per HTTP status code.
	DefaultImageBaseURL = "https://http.cat"
)

//go:embed report.html.tmpl
var pageTemplate string

var page = template.Must(template.New("report").Parse(pageTemplate))

// Options controls report presentation.
type Options struct {
	Title        string
	ImageBaseURL string
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.ImageBaseURL == "" {
		o.ImageBaseURL = DefaultImageBaseURL
	}
	o.ImageBaseURL = strings.TrimRight(o.ImageBaseURL, "/")
	return o
}

type row struct {
	Link   string
	Href   template.HTMLAttr
	Status string
	Image  string
}

// hrefAttr builds the anchor's href attribute carrying link verbatim.
// html/template would percent-encode it in URL context, so the value is only
// HTML-escaped. javascript: links are left without a target.
func hrefAttr(link string) template.HTMLAttr {
	if isScriptURL(link) {
		return `href="#"`
	}
	return template.HTMLAttr(`href="` + html.EscapeString(link) + `"`)
}

func isScriptURL(link string) bool {
	scheme, _, ok := strings.Cut(strings.TrimSpace(link), ":")
	return ok && strings.EqualFold(scheme, "javascript")
}

type pageData struct {
	Title string
	Rows  []row
}

// Render writes the report for results to w, one table row per result in
// the given order. Unreachable links show the error marker as their status
// but borrow the 404 illustration.
func Render(w io.Writer, results []result.StatusResult, opts Options) error {
	opts = opts.withDefaults()

	data := pageData{
		Title: opts.Title,
		Rows:  make([]row, 0, len(results)),
	}
	for _, res := range results {
		data.Rows = append(data.Rows, row{
			Link:   res.Link,
			Href:   hrefAttr(res.Link),
			Status: res.Status.String(),
			Image:  opts.ImageBaseURL + "/" + strconv.Itoa(res.Status.ImageCode()),
		})
	}

	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// WriteFile renders the whole report in memory, then writes it to path in a
// single call, replacing any existing file.
func WriteFile(path string, results []result.StatusResult, opts Options) error {
	var buf bytes.Buffer
	if err := Render(&buf, results, opts); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
