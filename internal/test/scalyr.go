package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	MockScalyrPath = "/api/query"

	mockEventCount = 250
)

var quotedTerm = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)

type mockQueryRequest struct {
	Token             string `json:"token"`
	QueryType         string `json:"queryType"`
	Filter            string `json:"filter"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	MaxCount          int    `json:"maxCount"`
	Columns           string `json:"columns"`
	ContinuationToken string `json:"continuationToken"`
}

type mockErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MockScalyr serves a small fixed set of log events behind a fake Scalyr
// query API. Quoted terms in the filter must all appear in a message for it
// to match, and pages are handed out through continuation tokens.
type MockScalyr struct {
	token  string
	events []map[string]any

	mu     sync.Mutex
	cursor map[string]int
}

func NewMockScalyr(token string) *MockScalyr {
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	events := make([]map[string]any, 0, mockEventCount)
	for i := 0; i < mockEventCount; i++ {
		severity, level := 3, "info"
		if i%10 == 0 {
			severity, level = 5, "error"
		}
		events = append(events, map[string]any{
			"timestamp": fmt.Sprintf("%d", base.Add(time.Duration(i)*time.Second).UnixNano()),
			"message":   fmt.Sprintf("%s: request %d served by web-%d", level, i, i%3),
			"severity":  severity,
			"thread":    fmt.Sprintf("%d", i%4),
			"attributes": map[string]any{
				"serverHost": fmt.Sprintf("web-%d", i%3),
			},
		})
	}

	return &MockScalyr{
		token:  token,
		events: events,
		cursor: make(map[string]int),
	}
}

func (m *MockScalyr) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(MockScalyrPath, m.handleQuery).Methods("POST")
	return r
}

func (m *MockScalyr) handleQuery(w http.ResponseWriter, r *http.Request) {
	var q mockQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeMockJSON(w, http.StatusBadRequest, mockErrorResponse{"error/client/badParam", "Malformed request body"})
		return
	}

	if q.Token != m.token {
		writeMockJSON(w, http.StatusUnauthorized, mockErrorResponse{"error/client/noPermission", "Invalid API token"})
		return
	}
	if q.QueryType != "log" {
		writeMockJSON(w, http.StatusBadRequest, mockErrorResponse{"error/client/badParam", "Unsupported queryType"})
		return
	}
	if q.MaxCount < 1 || q.MaxCount > 5000 {
		writeMockJSON(w, http.StatusBadRequest, mockErrorResponse{"error/client/badParam", "maxCount must be between 1 and 5000"})
		return
	}

	offset := 0
	if q.ContinuationToken != "" {
		m.mu.Lock()
		next, ok := m.cursor[q.ContinuationToken]
		delete(m.cursor, q.ContinuationToken)
		m.mu.Unlock()

		if !ok {
			writeMockJSON(w, http.StatusBadRequest, mockErrorResponse{"error/client/badParam", "Invalid continuation token"})
			return
		}
		offset = next
	}

	matched := m.match(q.Filter)

	end := offset + q.MaxCount
	if end > len(matched) {
		end = len(matched)
	}
	if offset > end {
		offset = end
	}

	matches := make([]map[string]any, 0, end-offset)
	for _, event := range matched[offset:end] {
		matches = append(matches, project(event, q.Columns))
	}

	response := map[string]any{
		"status":        "success",
		"matches":       matches,
		"sessions":      map[string]any{},
		"executionTime": 1,
	}
	if end < len(matched) {
		token := uuid.New().String()

		m.mu.Lock()
		m.cursor[token] = end
		m.mu.Unlock()

		response["continuationToken"] = token
	}

	writeMockJSON(w, http.StatusOK, response)
}

func (m *MockScalyr) match(filter string) []map[string]any {
	var terms []string
	for _, groups := range quotedTerm.FindAllStringSubmatch(filter, -1) {
		terms = append(terms, groups[1]+groups[2])
	}

	matched := make([]map[string]any, 0, len(m.events))
	for _, event := range m.events {
		message, _ := event["message"].(string)

		ok := true
		for _, term := range terms {
			if !strings.Contains(message, term) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, event)
		}
	}

	return matched
}

func project(event map[string]any, columns string) map[string]any {
	if strings.TrimSpace(columns) == "" {
		return event
	}

	projected := make(map[string]any)
	for _, column := range strings.Split(columns, ",") {
		column = strings.TrimSpace(column)
		if value, ok := event[column]; ok {
			projected[column] = value
		}
	}

	return projected
}

func writeMockJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
