package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"dscheirer.com/segloop/segpanel"
)

type framesResponse struct {
	Phase  string   `json:"phase"`
	Frames []string `json:"frames"`
	Valid  bool     `json:"valid"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// apiHandler answers the read-only status API
type apiHandler struct {
	rt runtimeConfig
}

func newAPIHandler(rt runtimeConfig) *apiHandler {
	return &apiHandler{rt: rt}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	output, _ := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(output)
}

func (h *apiHandler) apiStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.rt.status.snapshot()
	if h.rt.journal != nil {
		n, err := h.rt.journal.Failures(h.rt.clock.Now().Add(-journalWindow))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		snap.JournalFailures = &n
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *apiHandler) apiFrames(w http.ResponseWriter, r *http.Request) {
	p, err := segpanel.ParsePhase(mux.Vars(r)["phase"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	resp := framesResponse{Phase: p.String(), Valid: true}
	for _, f := range p.Frames() {
		resp.Frames = append(resp.Frames, f.String())
		resp.Valid = resp.Valid && f.Valid()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *apiHandler) apiJournal(w http.ResponseWriter, r *http.Request) {
	if h.rt.journal == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "journal disabled"})
		return
	}
	n := 20
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad n: " + s})
			return
		}
		n = v
	}
	recs, err := h.rt.journal.Recent(n)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *apiHandler) rootHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api/status", http.StatusMovedPermanently)
}

func newStatusRouter(handler *apiHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/status", handler.apiStatus).Methods("GET")
	r.HandleFunc("/api/frames/{phase}", handler.apiFrames).Methods("GET")
	r.HandleFunc("/api/journal", handler.apiJournal).Methods("GET")
	r.HandleFunc("/", handler.rootHandler)
	return r
}

func runStatusService(rt runtimeConfig) {
	logger := &ThreadLogger{name: "StatusService"}
	defer func() {
		logger.Println("Exiting runStatusService")
	}()

	handler := newAPIHandler(rt)
	rt.statusService.launch(handler, rt.settings.GetString(sStatusAddr))

	<-rt.comms.quit
	logger.Println("quit from status service")
	rt.statusService.stop()
}
