package auth

import (
	"html/template"
	"strings"

	"github.com/a-h/templ"

	"github.com/tsmatelier/storefront/internal/templates/layouts"
)

// formData feeds the login, drawer and forgot-password templates.
type formData struct {
	CSRFToken string
	Email     string
	Error     string
	Success   string

	// Drawer posts from the header drawer rather than the /login page.
	Drawer bool
}

var viewsTmpl = template.Must(template.New("auth").Parse(`
{{define "login-form"}}
<form method="post" action="/login" class="auth-form" {{if .Drawer}}hx-post="/login" hx-target="#modal" hx-swap="innerHTML"{{end}}>
  <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
  {{if .Drawer}}<input type="hidden" name="drawer" value="1">{{end}}
  <h1 class="auth-form__title">{{if .Drawer}}Identificação{{else}}Iniciar Sessão{{end}}</h1>
  {{if .Error}}<p class="auth-form__error" role="alert">{{.Error}}</p>{{end}}
  <div class="input-group">
    <label for="email">E-mail*</label>
    <input id="email" name="email" type="email" value="{{.Email}}" required autocomplete="username">
  </div>
  <div class="input-group">
    <label for="password">Senha*</label>
    <input id="password" name="password" type="password" required autocomplete="current-password">
  </div>
  <a href="/login?view=forgot-password" class="auth-form__link">Esqueceu a sua senha?</a>
  <button type="submit" class="button button--primary">Entrar</button>
</form>
{{end}}

{{define "forgot-form"}}
<form method="post" action="/forgot-password" class="auth-form">
  <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
  <h1 class="auth-form__title">Recuperar a Senha de Acesso</h1>
  <p class="auth-form__subtitle">Enviaremos um e-mail com instruções para recuperá-la</p>
  {{if .Error}}<p class="auth-form__error" role="alert">{{.Error}}</p>{{end}}
  {{if .Success}}<p class="auth-form__success" role="status">{{.Success}}</p>{{end}}
  <div class="input-group">
    <label for="email">E-mail</label>
    <input id="email" name="email" type="email" value="{{.Email}}" required>
  </div>
  <button type="submit" class="button button--primary">Enviar</button>
  <p class="auth-form__alt">Lembrou a senha? <a href="/login">Faça login</a></p>
</form>
{{end}}

{{define "benefits"}}
<div class="benefits">
  <h2>Em sua conta, você poderá:</h2>
  <ul>
    <li>Acessar seu histórico de pedidos</li>
    <li>Gerenciar suas informações pessoais</li>
    <li>Receber a Comunicação Digital do Atelier</li>
    <li>Salvar sua Lista de Desejos</li>
  </ul>
</div>
{{end}}

{{define "login-page"}}
<div class="login-page">
  <div class="login-page__form">{{template "login-form" .}}</div>
  <div class="login-page__benefits">{{template "benefits"}}</div>
</div>
{{end}}

{{define "forgot-page"}}
<div class="login-page">
  <div class="login-page__form">{{template "forgot-form" .}}</div>
  <div class="login-page__benefits">{{template "benefits"}}</div>
</div>
{{end}}

{{define "drawer"}}
<aside class="drawer" role="dialog" aria-modal="true">
  <button type="button" class="drawer__close" aria-label="Fechar" onclick="this.closest('#modal').innerHTML=''">&times;</button>
  {{template "login-form" .}}
</aside>
{{end}}

{{define "account"}}
<section class="account">
  <h1>Minha conta</h1>
  <p>Olá, {{.DisplayName}}.</p>
  <dl>
    <dt>E-mail</dt><dd>{{.Email}}</dd>
    <dt>Perfis</dt><dd>{{.Roles}}</dd>
  </dl>
</section>
{{end}}
`))

// forgotSuccessMessage is shown after any successful forgot-password submit.
const forgotSuccessMessage = "Se o e-mail estiver cadastrado, enviaremos as instruções para recuperação."

// Flash messages set around sign-in and sign-out.
const (
	logoutMessage        = "Você saiu da sua conta."
	loginRequiredMessage = "Faça login para continuar."
)

// LoginPage renders the full /login page.
func LoginPage(data formData) templ.Component {
	return layouts.Page("Entrar", viewsTmpl.Lookup("login-page"), data)
}

// ForgotPasswordPage renders /login?view=forgot-password.
func ForgotPasswordPage(data formData) templ.Component {
	return layouts.Page("Recuperar senha", viewsTmpl.Lookup("forgot-page"), data)
}

// LoginDrawer renders the header login drawer fragment for HTMX.
func LoginDrawer(data formData) templ.Component {
	data.Drawer = true
	return templ.FromGoHTML(viewsTmpl.Lookup("drawer"), data)
}

// AccountPage renders /minha-conta for a signed-in user.
func AccountPage(rec *SessionRecord) templ.Component {
	return layouts.Page("Minha conta", viewsTmpl.Lookup("account"), struct {
		DisplayName string
		Email       string
		Roles       string
	}{rec.DisplayName, rec.Email, strings.Join(rec.Roles, ", ")})
}
