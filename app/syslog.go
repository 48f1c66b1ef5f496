package app

import (
	"fmt"
	"log"
	"sync"
	"time"
)

const sysLogMaxEntries = 500

// SysLogEntry is a single system log line.
type SysLogEntry struct {
	Time    time.Time `json:"time"`
	Package string    `json:"package"`
	Message string    `json:"message"`
}

var (
	sysLogMu      sync.Mutex
	sysLogEntries []*SysLogEntry
)

// Log writes a package-scoped line to the standard logger and keeps a copy in
// the in-memory system log shown on /status.
func Log(pkg, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", pkg, msg)
	appendSysLog(pkg, msg)
}

// appendSysLog stores a log message in the in-memory ring buffer.
func appendSysLog(pkg, msg string) {
	entry := &SysLogEntry{
		Time:    time.Now(),
		Package: pkg,
		Message: msg,
	}
	sysLogMu.Lock()
	sysLogEntries = append(sysLogEntries, entry)
	if len(sysLogEntries) > sysLogMaxEntries {
		sysLogEntries = sysLogEntries[len(sysLogEntries)-sysLogMaxEntries:]
	}
	sysLogMu.Unlock()
}

// GetSysLog returns a copy of the system log in reverse-chronological order.
func GetSysLog() []*SysLogEntry {
	sysLogMu.Lock()
	defer sysLogMu.Unlock()
	result := make([]*SysLogEntry, len(sysLogEntries))
	for i, e := range sysLogEntries {
		result[len(sysLogEntries)-1-i] = e
	}
	return result
}
