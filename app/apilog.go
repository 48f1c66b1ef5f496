package app

import (
	"sync"
	"time"
)

const apiLogMaxEntries = 200

// APILogEntry records a single external API call.
type APILogEntry struct {
	Time     time.Time     `json:"time"`
	Service  string        `json:"service"`
	Method   string        `json:"method"`
	URL      string        `json:"url"`
	Status   int           `json:"status"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

var (
	apiLogMu      sync.Mutex
	apiLogEntries []*APILogEntry
)

// RecordAPICall appends an external API call record to the in-memory log.
// When the log exceeds apiLogMaxEntries the oldest entry is dropped.
func RecordAPICall(service, method, url string, status int, duration time.Duration, callErr error) {
	entry := &APILogEntry{
		Time:     time.Now(),
		Service:  service,
		Method:   method,
		URL:      url,
		Status:   status,
		Duration: duration,
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}
	apiLogMu.Lock()
	apiLogEntries = append(apiLogEntries, entry)
	if len(apiLogEntries) > apiLogMaxEntries {
		apiLogEntries = apiLogEntries[len(apiLogEntries)-apiLogMaxEntries:]
	}
	apiLogMu.Unlock()
}

// GetAPILog returns a copy of the API log entries in reverse-chronological order.
func GetAPILog() []*APILogEntry {
	apiLogMu.Lock()
	defer apiLogMu.Unlock()
	result := make([]*APILogEntry, len(apiLogEntries))
	for i, e := range apiLogEntries {
		result[len(apiLogEntries)-1-i] = e
	}
	return result
}

// APISummary aggregates the logged calls made to one URL of a service.
type APISummary struct {
	URL        string    `json:"url"`
	Calls      int       `json:"calls"`
	Failures   int       `json:"failures"`
	LastStatus int       `json:"last_status"`
	LastError  string    `json:"last_error,omitempty"`
	LastCall   time.Time `json:"last_call"`
}

// SummarizeAPILog groups the retained entries for service by URL, in the
// order each URL was first called. A call counts as failed when it returned
// an error or a non-2xx status.
func SummarizeAPILog(service string) []*APISummary {
	apiLogMu.Lock()
	defer apiLogMu.Unlock()

	byURL := map[string]*APISummary{}
	var out []*APISummary
	for _, e := range apiLogEntries {
		if e.Service != service {
			continue
		}
		s, ok := byURL[e.URL]
		if !ok {
			s = &APISummary{URL: e.URL}
			byURL[e.URL] = s
			out = append(out, s)
		}
		s.Calls++
		if e.Error != "" || e.Status < 200 || e.Status > 299 {
			s.Failures++
		}
		s.LastStatus = e.Status
		s.LastError = e.Error
		s.LastCall = e.Time
	}
	return out
}
