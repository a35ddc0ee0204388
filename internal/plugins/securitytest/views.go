package securitytest

import (
	"html/template"
	"strings"

	"github.com/a-h/templ"

	"github.com/tsmatelier/storefront/internal/plugins/auth"
	"github.com/tsmatelier/storefront/internal/templates/layouts"
)

type cardView struct {
	Level       Level
	Title       string
	Description string
	Enabled     bool
	Result      *Result
}

type pageView struct {
	CSRFToken     string
	Authenticated bool
	Name          string
	Roles         string
	Cards         []cardView
}

var cardCopy = map[Level][2]string{
	LevelPublic: {"1. Recurso Público", "Qualquer um pode acessar este endpoint, logado ou não."},
	LevelUser:   {"2. Recurso de Usuário (Role: CUSTOMER)", "Apenas usuários autenticados com a role 'CUSTOMER' podem acessar."},
	LevelAdmin:  {"3. Recurso de Admin (Role: ADMIN)", "Apenas usuários autenticados com a role 'ADMIN' podem acessar."},
}

// newPageView builds the page for rec (nil when signed out). result, when
// set, is placed in its level's card.
func newPageView(rec *auth.SessionRecord, csrf string, result *Result) pageView {
	v := pageView{CSRFToken: csrf, Authenticated: rec.Authenticated()}
	if v.Authenticated {
		v.Name = rec.DisplayName
		v.Roles = strings.Join(rec.Roles, ", ")
	}
	for _, l := range Levels {
		card := cardView{
			Level:       l,
			Title:       cardCopy[l][0],
			Description: cardCopy[l][1],
			Enabled:     auth.IsPermitted(l.Role(), rec),
		}
		if result != nil && result.Level == l {
			card.Result = result
		}
		v.Cards = append(v.Cards, card)
	}
	return v
}

var viewsTmpl = template.Must(template.New("securitytest").Parse(`
{{define "result"}}
{{if .}}<pre class="{{if .Success}}result{{else}}result result--error{{end}}">{{.Body}}</pre>{{end}}
{{end}}

{{define "page"}}
<section class="security-test">
  <h1>Página de Teste de Segurança</h1>
  <div class="security-test__status">
    <strong>Status da Sessão:</strong>
    {{if .Authenticated}}
    <span class="success">Autenticado como {{.Name}} (Roles: {{.Roles}})</span>
    {{else}}
    <span class="error">Não Autenticado</span>
    {{end}}
  </div>
  {{range .Cards}}
  <div class="card">
    <h2>{{.Title}}</h2>
    <p>{{.Description}}</p>
    <form method="post" action="/test-security/{{.Level}}" hx-post="/test-security/{{.Level}}" hx-target="#result-{{.Level}}" hx-swap="innerHTML">
      <input type="hidden" name="csrf_token" value="{{$.CSRFToken}}">
      <button type="submit" class="button" {{if not .Enabled}}disabled{{end}}>
        <span class="htmx-indicator">Testando...</span>
        Testar /test/{{.Level}}
      </button>
    </form>
    <div id="result-{{.Level}}">{{template "result" .Result}}</div>
  </div>
  {{end}}
</section>
{{end}}
`))

// Page renders GET /test-security and the non-HTMX probe response.
func Page(data pageView) templ.Component {
	return layouts.Page("Teste de Segurança", viewsTmpl.Lookup("page"), data)
}

// ResultFragment renders one probe result for HTMX.
func ResultFragment(r *Result) templ.Component {
	return templ.FromGoHTML(viewsTmpl.Lookup("result"), r)
}
