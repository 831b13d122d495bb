package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-phorce/ostiarius/gatekeeper"
	"github.com/go-phorce/ostiarius/ledger"
	"github.com/go-phorce/ostiarius/metrics"
	"github.com/go-phorce/ostiarius/xhttp/header"
	"github.com/go-phorce/ostiarius/xhttp/httperror"
	"github.com/go-phorce/ostiarius/xlog"
)

var logger = xlog.NewPackageLogger("github.com/go-phorce/ostiarius", "transport")

// Server wires a gatekeeper.Checker and a ledger.Ledger to the
// /api/v1/authorizations surface the spec defines.
type Server struct {
	checker *gatekeeper.Checker
	ledger  *ledger.Ledger
}

// NewServer returns a Server ready to be mounted onto a Router.
func NewServer(checker *gatekeeper.Checker, led *ledger.Ledger) *Server {
	return &Server{checker: checker, ledger: led}
}

// Mount registers the three authorization endpoints and a Prometheus scrape
// endpoint on r.
func (s *Server) Mount(r *Router) {
	r.POST("/api/v1/authorizations", s.create)
	r.GET("/api/v1/authorizations/:id", s.get)
	r.GET("/api/v1/authorizations", s.list)
	r.HandlerFunc("/metrics", metrics.Handler())
}

func (s *Server) create(w http.ResponseWriter, req *http.Request, _ Params) {
	var r gatekeeper.Request
	if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
		writeError(w, req, httperror.WithInvalidJSON("unable to decode request: %v", err))
		return
	}

	auth, err := s.checker.Check(r)
	if err != nil {
		if gatekeeper.Is(err, gatekeeper.KindUnauthorized) {
			metrics.RejectedTotal.Inc()
			writeError(w, req, httperror.WithForbidden("%v", err))
			return
		}
		logger.Errorf("reason=check, name=%q, command=%q, err=[%+v]", r.Name, r.Command, err)
		writeError(w, req, httperror.WithUnexpected("authorization check failed"))
		return
	}

	metrics.IssuedTotal.Inc()
	s.ledger.Store(auth)

	w.Header().Set(header.ContentType, header.ApplicationJSON)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(idResponse{ID: auth.ID})
}

// idResponse is the body of a 201 response to POST
// /api/v1/authorizations: just the freshly-minted Authorization's id, per
// spec.md §6. The Authorization itself, including its token, is fetched
// separately via GET /api/v1/authorizations/{id}.
type idResponse struct {
	ID string `json:"id"`
}

func (s *Server) get(w http.ResponseWriter, req *http.Request, p Params) {
	id := p.ByName("id")
	auth, ok := s.ledger.Get(id)
	if !ok {
		writeError(w, req, httperror.WithNotFound("no authorization with id %q", id))
		return
	}
	w.Header().Set(header.ContentType, header.ApplicationJSON)
	json.NewEncoder(w).Encode(auth)
}

func (s *Server) list(w http.ResponseWriter, req *http.Request, _ Params) {
	offset, _ := strconv.Atoi(req.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	auths := s.ledger.List(offset, limit)
	w.Header().Set(header.ContentType, header.ApplicationJSON)
	json.NewEncoder(w).Encode(auths)
}

func writeError(w http.ResponseWriter, req *http.Request, err *httperror.Error) {
	err.WriteHTTPResponse(w, req)
}
