package server

import (
	"net/http"

	"github.com/pantrywatch/pantrywatch/pkg/expiry"
	"github.com/pantrywatch/pantrywatch/pkg/history"
	"github.com/pantrywatch/pantrywatch/pkg/storage"
)

type Server struct {
	DB        *storage.DB
	History   *history.Store
	Scheduler *expiry.Scheduler
	Username  string
	Password  string
}

func New(db *storage.DB, sched *expiry.Scheduler, user, pass string) *Server {
	return &Server{
		DB:        db,
		History:   history.NewStore(db),
		Scheduler: sched,
		Username:  user,
		Password:  pass,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/healthz", s.handleHealthz)
	mux.HandleFunc("POST /api/convert", s.basicAuth(s.handleConvert))
	mux.HandleFunc("POST /api/schedule", s.basicAuth(s.handleSchedule))
	mux.HandleFunc("GET /api/history", s.basicAuth(s.handleHistory))
	mux.HandleFunc("GET /api/prefs/units", s.basicAuth(s.handleGetUnitPref))
	mux.HandleFunc("PUT /api/prefs/units", s.basicAuth(s.handleSetUnitPref))

	return mux
}

func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
