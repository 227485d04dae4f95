package middlewares

import (
	"net/http"
	"slices"
	"strings"
)

// HPPOptions guards against HTTP parameter pollution: repeated keys collapse
// to their first value and keys outside Whitelist are dropped.
type HPPOptions struct {
	CheckQuery                  bool
	CheckBody                   bool
	CheckBodyOnlyForContentType string
	Whitelist                   []string
}

func HPP(opts HPPOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.CheckBody && r.Method == http.MethodPost &&
				strings.Contains(r.Header.Get("Content-Type"), opts.CheckBodyOnlyForContentType) {
				if err := r.ParseForm(); err == nil {
					collapse(r.PostForm, opts.Whitelist)
					collapse(r.Form, opts.Whitelist)
				}
			}
			if opts.CheckQuery && r.URL.RawQuery != "" {
				q := r.URL.Query()
				collapse(q, opts.Whitelist)
				r.URL.RawQuery = q.Encode()
			}
			next.ServeHTTP(w, r)
		})
	}
}

func collapse(vals map[string][]string, whitelist []string) {
	for k, v := range vals {
		if !slices.Contains(whitelist, k) {
			delete(vals, k)
			continue
		}
		if len(v) > 1 {
			vals[k] = v[:1]
		}
	}
}

func DefaultHPPOptions() HPPOptions {
	return HPPOptions{
		CheckQuery:                  true,
		CheckBody:                   true,
		CheckBodyOnlyForContentType: "application/x-www-form-urlencoded",
		Whitelist:                   []string{"bits", "words", "password"},
	}
}
