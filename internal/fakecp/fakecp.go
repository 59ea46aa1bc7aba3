// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

// Package fakecp is an in-memory stand-in for the parts of the Candlepin API
// the client uses. It is meant for tests only.
package fakecp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Certificate is an imported certificate as stored by the fake.
type Certificate struct {
	ID         string `json:"id"`
	Base64Cert string `json:"base64cert"`
}

// Server fakes a Candlepin deployment rooted at Prefix.
type Server struct {
	Prefix string

	// Users maps usernames to passwords accepted at registration.
	Users map[string]string

	// DiscardUploads accepts certificate uploads without storing them.
	DiscardUploads bool
	// EmptyListing is the body returned by GET /certificates when nothing
	// has been imported.
	EmptyListing string
	// OmitUUID drops the uuid from registration responses.
	OmitUUID bool

	mu        sync.Mutex
	certs     []Certificate
	consumers map[string]map[string]interface{}
	requests  []string
}

// New returns a fake rooted at /candlepin that accepts fakeuser/fakepw.
func New() *Server {
	return &Server{
		Prefix:    "/candlepin",
		Users:     map[string]string{"fakeuser": "fakepw"},
		consumers: map[string]map[string]interface{}{},
	}
}

// Start serves the fake over plain HTTP. Close the returned server when done.
func (o *Server) Start() *httptest.Server {
	return httptest.NewServer(o)
}

// AddCertificate seeds an imported certificate.
func (o *Server) AddCertificate(base64Cert string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.certs = append(o.certs, Certificate{ID: uuid.NewString(), Base64Cert: base64Cert})
}

// Certificates returns the imported certificates.
func (o *Server) Certificates() []Certificate {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]Certificate(nil), o.certs...)
}

// Consumer returns the stored consumer with the given uuid.
func (o *Server) Consumer(id string) (map[string]interface{}, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	c, ok := o.consumers[id]
	return c, ok
}

// ConsumerCount returns the number of registered consumers.
func (o *Server) ConsumerCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.consumers)
}

// Requests returns "METHOD /path" for every request served so far.
func (o *Server) Requests() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]string(nil), o.requests...)
}

// Count returns how many served requests match "METHOD /path" exactly.
func (o *Server) Count(request string) int {
	n := 0
	for _, r := range o.Requests() {
		if r == request {
			n++
		}
	}
	return n
}

func (o *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	o.mu.Lock()
	o.requests = append(o.requests, r.Method+" "+r.URL.Path)
	o.mu.Unlock()

	path, ok := strings.CutPrefix(r.URL.Path, o.Prefix+"/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case path == "certificates" && r.Method == http.MethodGet:
		o.listCertificates(w)
	case path == "certificates" && r.Method == http.MethodPost:
		o.uploadCertificate(w, r)
	case path == "consumers" && r.Method == http.MethodPost:
		o.registerConsumer(w, r)
	case strings.HasPrefix(path, "consumers/"):
		o.consumer(w, r, strings.TrimPrefix(path, "consumers/"))
	default:
		writeException(w, http.StatusNotFound, "Unknown resource "+r.URL.Path)
	}
}

func (o *Server) listCertificates(w http.ResponseWriter) {
	o.mu.Lock()
	defer o.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if len(o.certs) == 0 {
		_, _ = w.Write([]byte(o.EmptyListing))
		return
	}

	_ = json.NewEncoder(w).Encode(o.certs)
}

func (o *Server) uploadCertificate(w http.ResponseWriter, r *http.Request) {
	var body interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeException(w, http.StatusBadRequest, "Unable to parse certificate payload")
		return
	}

	var encoded string
	switch v := body.(type) {
	case string:
		encoded = v
	case map[string]interface{}:
		encoded, _ = v["base64cert"].(string)
	}

	if encoded == "" {
		writeException(w, http.StatusBadRequest, "No certificate supplied")
		return
	}

	if !o.DiscardUploads {
		o.AddCertificate(encoded)
	}

	w.WriteHeader(http.StatusOK)
}

func (o *Server) registerConsumer(w http.ResponseWriter, r *http.Request) {
	user, pass, ok := r.BasicAuth()
	if !ok || o.Users[user] != pass {
		writeException(w, http.StatusUnauthorized, "Invalid Credentials")
		return
	}

	var req map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeException(w, http.StatusBadRequest, "Unable to parse consumer")
		return
	}

	id := uuid.NewString()

	consumer := map[string]interface{}{
		"uuid":     id,
		"name":     req["name"],
		"username": user,
		"type":     req["type"],
		"facts":    req["facts"],
	}

	o.mu.Lock()
	o.consumers[id] = consumer
	o.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if o.OmitUUID {
		delete(consumer, "uuid")
	}

	_ = json.NewEncoder(w).Encode(consumer)
}

func (o *Server) consumer(w http.ResponseWriter, r *http.Request, id string) {
	o.mu.Lock()
	c, ok := o.consumers[id]
	if ok && r.Method == http.MethodDelete {
		delete(o.consumers, id)
	}
	o.mu.Unlock()

	if !ok {
		writeException(w, http.StatusGone, "Consumer "+id+" has been deleted")
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c)
	case http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		writeException(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func writeException(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"displayMessage": msg,
		"requestUuid":    uuid.NewString(),
	})
}
