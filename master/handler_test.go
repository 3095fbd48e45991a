package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zaptest.NewLogger(t)
	srv := httptest.NewServer(NewHandler(NewRegistry(time.Minute, log), log))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRegisterHeartbeatList(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/servers/register",
		`{"name":"Court","address":"10.0.0.1:7373","arena":"court","maxPlayers":8,"region":"eu"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	var reg registerResponse
	if err := json.NewDecoder(resp.Body).Decode(&reg); err != nil || reg.ID == "" {
		t.Fatalf("decode register response: %v (%+v)", err, reg)
	}

	resp = post(t, srv.URL+"/servers/heartbeat", `{"id":"`+reg.ID+`","players":2}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("heartbeat status = %d", resp.StatusCode)
	}

	list, err := http.Get(srv.URL + "/servers?region=eu")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer list.Body.Close()
	var servers []ServerInfo
	if err := json.NewDecoder(list.Body).Decode(&servers); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(servers) != 1 || servers[0].Arena != "court" || servers[0].Players != 2 {
		t.Fatalf("unexpected servers %+v", servers)
	}

	other, err := http.Get(srv.URL + "/servers?region=us")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer other.Body.Close()
	servers = nil
	if err := json.NewDecoder(other.Body).Decode(&servers); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(servers) != 0 {
		t.Fatalf("expected no servers in us, got %+v", servers)
	}
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	if resp := post(t, srv.URL+"/servers/register", `{"name":""}`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing fields: status = %d", resp.StatusCode)
	}
	if resp := post(t, srv.URL+"/servers/register", `not json`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad json: status = %d", resp.StatusCode)
	}
}

func TestHeartbeatUnknown(t *testing.T) {
	srv := newTestServer(t)
	if resp := post(t, srv.URL+"/servers/heartbeat", `{"id":"nope"}`); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
