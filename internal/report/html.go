package report

import (
	"bytes"
	"html/template"
	"io"

	"github.com/jqliu1995/Code-for-APEX/internal/criteria"
)

// Title is the HTML page title.
const Title = "APEX benchmark report"

type pageView struct {
	Title string
	Page
}

// Render writes page as a standalone HTML document.
func Render(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, pageView{Title: Title, Page: page})
}

// RenderString renders page into a string.
func RenderString(page Page) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func gradeColor(c criteria.Cell) string {
	if !c.Graded {
		return ""
	}
	switch c.Grade {
	case criteria.Pass:
		return "green"
	case criteria.Fail:
		return "red"
	}
	return ""
}

// countColor is green when every graded value passed.
func countColor(c criteria.Count) string {
	if c.NotPass == 0 {
		return "green"
	}
	return "red"
}

// allColor is green when every row passed.
func allColor(c criteria.Count) string {
	if c.Pass == c.Total {
		return "green"
	}
	return "red"
}

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"gradeColor": gradeColor,
	"countColor": countColor,
	"allColor":   allColor,
	"isHeading": func(t ItemType) bool {
		return t == Head1 || t == Head2 || t == Head3
	},
}).Parse(pageTemplateHTML))

const pageTemplateHTML = `{{define "cell"}}{{with gradeColor .}}<font color="{{.}}">{{$.Text}}</font>{{else}}{{.Text}}{{end}}{{end}}
{{- define "grid"}}	<table border="2px">
		<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
		<tbody>
{{- range .Rows}}
			<tr>{{range .}}<td>{{template "cell" .}}</td>{{end}}</tr>
{{- end}}
		</tbody>
	</table>
{{end}}
{{- define "body"}}
{{- if isHeading .Type}}	<div class="{{.Type}}">{{.Heading}}</div>
{{else if eq .Type "text"}}{{range .Lines}}	<div class="doc">    {{.}}</div>
{{end}}
{{- else if eq .Type "image"}}{{range .Images}}	<img class="thumbnail" src="{{.}}" onclick="openFullscreen(this)">
{{end}}{{with .Title}}	<div class="imagetitle">{{.}}</div>
{{end}}
{{- else if eq .Type "supermetrics"}}{{with .Title}}	<div class="tabletitle">{{.}}</div>
{{end}}	<table border="2px">
		<tbody>
			<tr><td>Metric</td><td>Value</td><td>Criteria</td></tr>
{{- range .Super}}
			<tr><td>{{.Metric}}</td><td>{{template "cell" .Cell}}</td><td>{{.Criterion}}</td></tr>
{{- end}}
		</tbody>
	</table>
{{else}}{{with .Title}}	<div class="tabletitle">{{.}}</div>
{{end}}
{{- if .Criteria}}{{with .Tally.All}}	<div class="passnum">Pass/Total: <font color="{{allColor .}}">{{.Pass}}/{{.Total}}</font></div>
{{end}}	<table class="legend" border="2px">
		<tbody>
			<tr><td>Key</td><td>Pass/Total</td><td>Criteria</td></tr>
{{- range .Legend}}
			<tr><td>{{.Column}}</td><td style="color:{{countColor .Count}}">{{.Count.Pass}}/{{.Count.Graded}}</td><td>{{.Criterion}}</td></tr>
{{- end}}
		</tbody>
	</table>
{{end}}
{{- with .Table}}{{template "grid" .}}{{end}}
{{- end}}
{{- end -}}
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { text-align: left; }
        .head1 { font-size: 20px; font-weight: bold; white-space: pre-wrap; line-height: 2; margin-top: 1rem; }
        .head2 { font-size: 18px; font-weight: bold; white-space: pre-wrap; line-height: 2; }
        .head3 { font-size: 16px; font-weight: bold; white-space: pre-wrap; line-height: 2; }
        .tabletitle, .imagetitle { font-size: 16px; font-weight: bold; word-wrap: break-word; line-height: 2; }
        .passnum { font-size: 14px; line-height: 1.5; }
        .legend { font-size: 13px; margin-bottom: 0.5rem; }
        .doc {
            font-family: Verdana, sans-serif;
            text-align: left;
            display: inline-block;
            font-size: 16px;
            width: 100%;
            word-wrap: break-word;
            white-space: pre-wrap;
            line-height: 1.5;
            margin-bottom: 0.5rem;
        }
        #keys table { border-collapse: collapse; width: 100%; }
        #keys td { border: none; padding: 5px; text-align: left; line-height: 0.8; }
        img { max-width: 600px; max-height: 600px; height: auto; cursor: zoom-in; }
        .overlay {
            display: none;
            position: fixed;
            top: 0; left: 0; right: 0; bottom: 0;
            background-color: rgba(0, 0, 0, 0.8);
            z-index: 1000;
            overflow: auto;
        }
        .overlay img {
            position: absolute;
            top: 50%; left: 50%;
            transform: translate(-50%, -50%);
            max-width: 100%; max-height: 100%;
            object-fit: contain;
            cursor: zoom-out;
        }
    </style>
</head>
<body>
	<table id="keys">
{{- range .Keys}}
		<tr><td><strong>{{.Name}}</strong></td><td>:</td><td>{{if .Link}}<a href="{{.Link}}">{{.Value}}</a>{{else}}{{.Value}}{{end}}</td></tr>
{{- end}}
	</table>
{{range .Blocks}}{{if not .Empty}}{{if and .Center (not (isHeading .Type)) (ne .Type "text")}}	<center>
{{template "body" .}}	</center>
{{else}}{{template "body" .}}{{end}}{{end}}{{end}}
{{- if .HasImages}}
	<div class="overlay" id="overlay" onclick="closeFullscreen()">
		<img id="fullscreenImage" src="">
	</div>
	<script>
		var overlay = document.getElementById("overlay");
		var fullscreenImage = document.getElementById("fullscreenImage");

		function openFullscreen(imgElement) {
			fullscreenImage.src = imgElement.src;
			overlay.style.display = "block";
		}

		function closeFullscreen() {
			overlay.style.display = "none";
			fullscreenImage.src = "";
		}
	</script>
{{- end}}
</body>
</html>
`
