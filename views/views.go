// Package views is the default view set for cleanblog. Every page is an
// html/template file under templates/, wrapped in a templ.Component so it
// plugs into cleanblog.ViewFuncs.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/cleanblog"
)

// Templates contains the page templates. layout.html is shared; every other
// file defines the "content" block of one page.
//
//go:embed templates/*.html
var Templates embed.FS

var funcs = template.FuncMap{
	"bodyHTML": cleanblog.BodyHTML,
	"websiteJSONLD": func(cfg cleanblog.SiteConfig) template.JS {
		return template.JS(cleanblog.WebsiteJsonLD(cfg))
	},
	"postJSONLD": func(p cleanblog.PostView, cfg cleanblog.SiteConfig) template.JS {
		return template.JS(cleanblog.BlogPostingJsonLD(p, cfg))
	},
}

var pages = mustParsePages(
	"index", "post", "make-post", "register", "login", "about", "contact", "404", "500",
)

func mustParsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := template.New(name).Funcs(funcs).ParseFS(Templates, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			panic(fmt.Sprintf("views: parse %s: %v", name, err))
		}
		out[name] = t
	}
	return out
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages[name].ExecuteTemplate(w, "layout", data)
	})
}

// Funcs returns the default ViewFuncs.
func Funcs() cleanblog.ViewFuncs {
	return cleanblog.ViewFuncs{
		Index:       Index,
		Post:        Post,
		PostForm:    PostForm,
		Register:    Register,
		Login:       Login,
		About:       About,
		Contact:     Contact,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}

func Index(p cleanblog.IndexPage) templ.Component { return page("index", p) }

func Post(p cleanblog.PostPage) templ.Component { return page("post", p) }

func PostForm(p cleanblog.PostFormPage) templ.Component { return page("make-post", p) }

func Register(p cleanblog.AuthPage) templ.Component { return page("register", p) }

func Login(p cleanblog.AuthPage) templ.Component { return page("login", p) }

func About(p cleanblog.Page) templ.Component { return page("about", p) }

func Contact(p cleanblog.Page) templ.Component { return page("contact", p) }

func NotFound(p cleanblog.Page) templ.Component { return page("404", p) }

func ServerError(p cleanblog.Page) templ.Component { return page("500", p) }
