package httpx

import (
	"html/template"
	"net/http"
	"net/url"

	domainauth "github.com/mtnd/patrimoine-gateway/internal/domain/auth"
)

// Minimal server-rendered pages for the login and unauthorized views. The
// gateway fronts single page applications that normally render these
// themselves; these pages exist so browser redirects always land somewhere
// sensible even when no frontend bundle is deployed.

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Connexion</title></head>
<body>
<h1>Connexion</h1>
<form method="post" action="{{.Action}}" id="login-form">
  <label>Identifiant <input type="text" name="login" autocomplete="username" required></label>
  <label>Mot de passe <input type="password" name="password" autocomplete="current-password" required></label>
  <button type="submit">Se connecter</button>
</form>
<script>
document.getElementById('login-form').addEventListener('submit', async function (ev) {
  ev.preventDefault();
  const form = ev.target;
  const resp = await fetch(form.action, {
    method: 'POST',
    headers: {'Content-Type': 'application/json', 'Accept': 'application/json'},
    body: JSON.stringify({login: form.login.value, password: form.password.value}),
  });
  const body = await resp.json();
  if (resp.ok) {
    window.location.assign(body.redirect_to || '/');
  } else {
    alert(body.message || 'Connexion refusée');
  }
});
</script>
</body>
</html>`))

var unauthorizedTemplate = template.Must(template.New("unauthorized").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Acc&egrave;s refus&eacute;</title></head>
<body>
<h1>Acc&egrave;s refus&eacute;</h1>
<p>Votre compte ne dispose pas des droits requis pour cette page.</p>
<p><a href="/">Retour &agrave; l&#39;accueil</a> &middot; <a href="/auth/logout">Changer de compte</a></p>
</body>
</html>`))

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Patrimoine</title></head>
<body>
{{if .User}}
<h1>Bienvenue, {{.User.Name}}</h1>
<p>R&ocirc;le : {{.User.Role}}</p>
<p><a href="/auth/logout">Se d&eacute;connecter</a></p>
{{else}}
<h1>Patrimoine</h1>
<p><a href="/login">Se connecter</a></p>
{{end}}
</body>
</html>`))

func indexPageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	user, _ := GetUserFromContext(r.Context())
	_ = indexTemplate.Execute(w, struct{ User *domainauth.UserRecord }{User: user})
}

func loginPageHandler(w http.ResponseWriter, r *http.Request) {
	// Already logged in: skip the form and continue to the requested page.
	if IsAuthenticated(r.Context()) {
		http.Redirect(w, r, safeRedirectPath(r.URL.Query().Get("redirect_uri")), http.StatusSeeOther)
		return
	}

	// The query is encoded here in full so the template interpolates it
	// verbatim; letting the template escape a pre-escaped value would encode
	// the path twice and the post-login redirect would lose it.
	action := "/auth/login"
	if raw := r.URL.Query().Get("redirect_uri"); raw != "" {
		q := url.Values{"redirect_uri": {safeRedirectPath(raw)}}
		action += "?" + q.Encode()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Action template.URL }{Action: template.URL(action)}
	_ = loginTemplate.Execute(w, data)
}

func unauthorizedPageHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_ = unauthorizedTemplate.Execute(w, nil)
}
