// Package pages holds the standalone pages that belong to no plugin: the
// landing page and the not-found and error screens used by the error handler.
package pages

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/tsmatelier/storefront/internal/templates/layouts"
)

var landingTmpl = template.Must(template.New("landing").Parse(`
<section class="hero">
  <img src="/static/images/hero.jpg" alt="Modelo vestindo uma peça de alta costura">
</section>
<section class="split">
  <div class="split__image"><img src="/static/images/split-1.jpg" alt="Detalhe de uma coleção"></div>
  <div class="split__image"><img src="/static/images/split-2.jpg" alt="Outro detalhe da coleção"></div>
</section>
`))

var notFoundTmpl = template.Must(template.New("not-found").Parse(`
<section class="status-page">
  <h1>Página não encontrada</h1>
  <p>{{if .}}{{.}}{{else}}O conteúdo que você procura não existe ou foi removido.{{end}}</p>
  <a href="/" class="button">Voltar para a loja</a>
</section>
`))

var errorTmpl = template.Must(template.New("error").Parse(`
<section class="status-page">
  <h1>Algo deu errado</h1>
  <p>{{.Message}}</p>
  <p class="muted">Código {{.Code}}</p>
  <a href="/" class="button">Voltar para a loja</a>
</section>
`))

// Landing renders the home page.
func Landing() templ.Component {
	return layouts.Page("", landingTmpl, nil)
}

// NotFound renders the 404 page. An empty message uses the default text.
func NotFound(message string) templ.Component {
	return layouts.Page("Não encontrado", notFoundTmpl, message)
}

// ErrorPage renders a generic error page with a client-safe message.
func ErrorPage(code int, message string) templ.Component {
	return layouts.Page("Erro", errorTmpl, struct {
		Code    int
		Message string
	}{code, message})
}
