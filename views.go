package newtablinks

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// Built-in admin views. Each is a templ component so users can swap any
// of them out through ViewFuncs without touching handler logic.

func (v *ViewFuncs) fillDefaults() {
	if v.AdminLogin == nil {
		v.AdminLogin = defaultAdminLogin
	}
	if v.AdminDashboard == nil {
		v.AdminDashboard = defaultAdminDashboard
	}
	if v.AdminLinkForm == nil {
		v.AdminLinkForm = defaultAdminLinkForm
	}
}

func page(title string, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title><link rel="stylesheet" href="/public/admin.css"></head><body><main>`, html.EscapeString(title)); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func defaultAdminLogin(showError bool, csrfToken string) templ.Component {
	return page("New Tab Links — Log in", func(w io.Writer) error {
		if showError {
			if _, err := io.WriteString(w, `<p class="error">Invalid password.</p>`); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<h1>New Tab Links</h1>
<form method="post" action="/admin/login/">
<input type="hidden" name="_csrf" value="%s">
<label>Password <input type="password" name="password" autofocus></label>
<button type="submit">Log in</button>
</form>`, html.EscapeString(csrfToken))
		return err
	})
}

func defaultAdminDashboard(links []Link, info SiteInfo, message string, csrfToken string) templ.Component {
	return page("New Tab Links — Dashboard", func(w io.Writer) error {
		token := html.EscapeString(csrfToken)
		if message != "" {
			if _, err := fmt.Fprintf(w, `<p class="notice">%s</p>`, html.EscapeString(message)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<h1>New Tab Links</h1>
<form method="post" action="/admin/logout/"><input type="hidden" name="_csrf" value="%s"><button type="submit">Log out</button></form>
<h2>Links</h2>
<table><thead><tr><th>Title</th><th>URL</th><th>Status</th><th>Screenshot</th><th></th></tr></thead><tbody>`, token); err != nil {
			return err
		}
		for _, l := range links {
			shot := "—"
			if !l.Screenshot.Empty() {
				shot = fmt.Sprintf(`<img src="%s" alt="" width="75">`, html.EscapeString(CleanURL(l.Screenshot.Thumbnail)))
			}
			if _, err := fmt.Fprintf(w, `<tr><td><a href="/admin/link/%d/">%s</a></td><td>%s</td><td>%s</td><td>%s</td><td>
<form method="post" action="/admin/link/%d/publish/"><input type="hidden" name="_csrf" value="%s"><button type="submit">Publish</button></form>
<form method="post" action="/admin/link/%d/trash/"><input type="hidden" name="_csrf" value="%s"><button type="submit">Trash</button></form>
</td></tr>`,
				l.ID, html.EscapeString(l.Title), html.EscapeString(l.URL), l.Status, shot,
				l.ID, token, l.ID, token); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `</tbody></table>
<h2>Add link</h2>
<form method="post" action="/admin/save/">
<input type="hidden" name="_csrf" value="%s">
<label>Title <input name="title"></label>
<label>URL <input class="code" name="url" size="30" maxlength="255" placeholder="http://wordpress.org/"></label>
<p>Example: <code>http://wordpress.org/</code> — don't forget the <code>http://</code></p>
<button type="submit">Save</button>
</form>
<h2>Settings</h2>
<form method="post" action="/admin/settings/">
<input type="hidden" name="_csrf" value="%s">
<label>Name <input name="name" value="%s"></label>
<p class="description">The name of the new tab page.</p>
<label>Logo <input name="logo" value="%s"></label>
<p class="description">Link to the main logo for the new tab page.</p>
<button type="submit">Save settings</button>
</form>`, token, token, html.EscapeString(info.Name), html.EscapeString(info.Logo)); err != nil {
			return err
		}
		return nil
	})
}

func defaultAdminLinkForm(link Link, csrfToken string) templ.Component {
	return page("New Tab Links — Edit link", func(w io.Writer) error {
		token := html.EscapeString(csrfToken)
		_, err := fmt.Fprintf(w, `<h1>Edit link</h1>
<form method="post" action="/admin/save/">
<input type="hidden" name="_csrf" value="%s">
<input type="hidden" name="id" value="%d">
<label>Title <input name="title" value="%s"></label>
<label>URL <input class="code" name="url" size="30" maxlength="255" value="%s"></label>
<button type="submit">Save</button>
</form>
<h2>Screenshot</h2>
<form method="post" action="/admin/link/%d/screenshot/" enctype="multipart/form-data">
<input type="hidden" name="_csrf" value="%s">
<input type="file" name="screenshot" accept="image/*">
<button type="submit">Upload</button>
</form>
<p><a href="/admin/">Back to dashboard</a></p>`,
			token, link.ID, html.EscapeString(link.Title), html.EscapeString(link.URL), link.ID, token)
		return err
	})
}
