package openapi

import (
	"bytes"
	"html/template"
)

type docsPage struct {
	Title   string
	SpecURL string
}

var (
	swaggerTmpl = template.Must(template.New("swagger").Parse(swaggerHTML))
	redocTmpl   = template.Must(template.New("redoc").Parse(redocHTML))
)

// SwaggerHTML renders a Swagger UI page for the document at specURL.
func SwaggerHTML(title, specURL string) ([]byte, error) {
	return render(swaggerTmpl, title, specURL)
}

// RedocHTML renders a ReDoc page for the document at specURL.
func RedocHTML(title, specURL string) ([]byte, error) {
	return render(redocTmpl, title, specURL)
}

func render(t *template.Template, title, specURL string) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, docsPage{Title: title, SpecURL: specURL}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const swaggerHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <link type="text/css" rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
  <title>{{.Title}}</title>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    const ui = SwaggerUIBundle({
      url: {{.SpecURL}},
      dom_id: '#swagger-ui',
      presets: [
        SwaggerUIBundle.presets.apis,
        SwaggerUIBundle.SwaggerUIStandalonePreset
      ],
      layout: "BaseLayout",
      deepLinking: true,
      showExtensions: true,
      showCommonExtensions: true
    })
  </script>
</body>
</html>`

const redocHTML = `<!doctype html>
<html lang="en">
<head>
  <title>{{.Title}}</title>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <link href="https://fonts.googleapis.com/css?family=Montserrat:300,400,700|Roboto:300,400,700" rel="stylesheet">
  <style>
    body {
      margin: 0;
      padding: 0;
    }
  </style>
</head>
<body>
  <redoc spec-url="{{.SpecURL}}"></redoc>
  <script src="https://cdn.jsdelivr.net/npm/redoc@next/bundles/redoc.standalone.js"></script>
</body>
</html>`
