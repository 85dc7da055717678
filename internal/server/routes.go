package server

import (
	"fmt"
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

const APIPrefix = "/api/v1"

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		next.ServeHTTP(w, r)
	})
}

func makeResponseJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.infoLog.Printf("%s - %s %s %s id=%s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI(), r.Header.Get("X-Request-ID"))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				s.serverError(w, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Routes returns the item API with middleware and CORS applied.
func (s *Server) Routes() http.Handler {
	standard := alice.New(s.recoverPanic, s.logRequest, secureHeaders, makeResponseJSON)

	mux := pat.New()

	// /items/search is registered ahead of /items/:id so it is not read as an id.
	mux.Get(APIPrefix+"/items", standard.ThenFunc(s.listItems))
	mux.Get(APIPrefix+"/items/search", standard.ThenFunc(s.searchItems))
	mux.Get(APIPrefix+"/items/:id", standard.ThenFunc(s.getItem))
	mux.Post(APIPrefix+"/items", standard.ThenFunc(s.createItem))
	mux.Put(APIPrefix+"/items/:id", standard.ThenFunc(s.updateItem))
	mux.Del(APIPrefix+"/items/:id", standard.ThenFunc(s.deleteItem))

	return s.cors.Handler(mux)
}
