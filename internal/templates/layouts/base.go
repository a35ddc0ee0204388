package layouts

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// NavCollection is a collection link in the header menu.
type NavCollection struct {
	Name string
	Slug string
}

// navCollections is the fixed collections menu.
var navCollections = []NavCollection{
	{Name: "Verão Celeste", Slug: "colecao-verao-2025"},
	{Name: "Essência Urbana", Slug: "classicos-atemporais"},
	{Name: "Noites de Gala", Slug: "festa-&-gala"},
	{Name: "Atemporal", Slug: "atemporal"},
}

// shellData is everything the base template reads.
type shellData struct {
	Title          string
	ShowHeader     bool
	Overlay        bool
	BodyClass      string
	Authenticated  bool
	UserName       string
	CSRFToken      string
	SessionExpired bool
	FlashSuccess   string
	FlashError     string
	Collections    []NavCollection
	Content        template.HTML
}

var baseTmpl = template.Must(template.New("base").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="csrf-token" content="{{.CSRFToken}}">
<title>{{if .Title}}{{.Title}} | {{end}}TSM Atelier</title>
<link rel="stylesheet" href="/static/css/app.css">
<script src="/static/js/htmx.min.js" defer></script>
</head>
<body class="{{.BodyClass}}" hx-headers='{"X-CSRF-Token": "{{.CSRFToken}}"}'>
{{if .ShowHeader}}
<header class="header {{if .Overlay}}header--product{{else}}header--default{{end}}">
  <nav class="header__left">
    <a href="/" class="nav-link">Shop</a>
    <details class="nav-menu">
      <summary class="nav-link">Coleções</summary>
      <ul>{{range .Collections}}<li><a href="/colecao/{{.Slug}}" class="nav-link">{{.Name}}</a></li>{{end}}</ul>
    </details>
  </nav>
  <a href="/" class="header__logo"><img src="/static/images/logo.png" alt="TSM Atelier" width="140" height="50"></a>
  <div class="header__right">
    {{if .Authenticated}}
    <a href="/minha-conta" class="nav-link" aria-label="Minha conta">{{.UserName}}</a>
    <form method="post" action="/logout" class="inline">
      <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
      <button type="submit" aria-label="Sair">Sair</button>
    </form>
    {{else}}
    <a href="/login" hx-get="/login" hx-target="#modal" hx-swap="innerHTML" aria-label="Login">Entrar</a>
    {{end}}
  </div>
</header>
{{end}}
{{if .SessionExpired}}<div class="notice notice--warning" role="status">Sua sessão expirou. Entre novamente.</div>{{end}}
{{if .FlashSuccess}}<div class="notice notice--success" role="status">{{.FlashSuccess}}</div>{{end}}
{{if .FlashError}}<div class="notice notice--error" role="alert">{{.FlashError}}</div>{{end}}
<main>{{.Content}}</main>
<div id="modal"></div>
</body>
</html>
`))

// Base wraps content in the site shell. The header follows HeaderModeFor the
// active path; session and CSRF data come from the context.
func Base(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		html, err := templ.ToGoHTML(ctx, content)
		if err != nil {
			return err
		}

		mode := HeaderModeFor(GetActivePath(ctx))
		return baseTmpl.Execute(w, shellData{
			Title:          title,
			ShowHeader:     mode != HeaderHidden,
			Overlay:        mode == HeaderOverlay,
			BodyClass:      mode.BodyClass(),
			Authenticated:  IsAuthenticated(ctx),
			UserName:       GetUserName(ctx),
			CSRFToken:      GetCSRFToken(ctx),
			SessionExpired: IsSessionExpired(ctx),
			FlashSuccess:   GetFlashSuccess(ctx),
			FlashError:     GetFlashError(ctx),
			Collections:    navCollections,
			Content:        html,
		})
	})
}

// Page is a helper for page bodies written as html/template: it renders tmpl
// with data inside Base.
func Page(title string, tmpl *template.Template, data any) templ.Component {
	return Base(title, templ.FromGoHTML(tmpl, data))
}
