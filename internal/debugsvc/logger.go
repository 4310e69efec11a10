// Package debugsvc is the runtime's structured logging sink: a
// circular-buffer Logger fed over a channel by one goroutine, bound to the
// scenario runtime's own components instead of {CPU, PPU, APU, Memory,
// Input, UI, System}.
package debugsvc

import (
	"fmt"
	"sync"
	"time"
)

// LogLevel is the severity ladder for a log entry.
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelNone:
		return "NONE"
	case LogLevelError:
		return "ERROR"
	case LogLevelWarning:
		return "WARNING"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Component names the runtime subsystem that produced an entry.
type Component string

const (
	ComponentScript    Component = "Script"
	ComponentEval      Component = "Eval"
	ComponentVars      Component = "Vars"
	ComponentCallstack Component = "Callstack"
	ComponentDialogue  Component = "Dialogue"
	ComponentScheduler Component = "Scheduler"
	ComponentTween     Component = "Tween"
	ComponentSprite    Component = "Sprite"
	ComponentEffect    Component = "Effect"
	ComponentSave      Component = "Save"
	ComponentSkip      Component = "Skip"
	ComponentInput     Component = "Input"
	ComponentEngine    Component = "Engine"
)

// LogEntry is one ring-buffer entry.
type LogEntry struct {
	Timestamp time.Time
	Component Component
	Level     LogLevel
	Message   string
	Data      map[string]interface{}
}

// Format renders an entry as a single log line.
func (e *LogEntry) Format() string {
	ts := e.Timestamp.Format("15:04:05.000")
	return fmt.Sprintf("[%s] [%s] %s: %s", ts, e.Component, e.Level, e.Message)
}

// Logger is a circular buffer of LogEntry drained from a buffered channel
// by a single goroutine.
type Logger struct {
	entries    []LogEntry
	entriesMu  sync.RWMutex
	maxEntries int
	writeIndex int
	entryCount int

	componentEnabled map[Component]bool
	componentMu      sync.RWMutex

	minLevel LogLevel
	levelMu  sync.RWMutex

	logChan  chan LogEntry
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewLogger creates a logger with the given ring-buffer capacity. Logging
// is opt-in per component.
func NewLogger(maxEntries int) *Logger {
	if maxEntries < 100 {
		maxEntries = 100
	}
	l := &Logger{
		entries:          make([]LogEntry, maxEntries),
		maxEntries:       maxEntries,
		componentEnabled: make(map[Component]bool),
		minLevel:         LogLevelInfo,
		logChan:          make(chan LogEntry, 1000),
		shutdown:         make(chan struct{}),
	}
	for _, c := range []Component{
		ComponentScript, ComponentEval, ComponentVars, ComponentCallstack,
		ComponentDialogue, ComponentScheduler, ComponentTween, ComponentSprite,
		ComponentEffect, ComponentSave, ComponentSkip, ComponentInput, ComponentEngine,
	} {
		l.componentEnabled[c] = false
	}
	l.wg.Add(1)
	go l.processLogs()
	return l
}

func (l *Logger) processLogs() {
	defer l.wg.Done()
	for {
		select {
		case entry := <-l.logChan:
			l.addEntry(entry)
		case <-l.shutdown:
			for {
				select {
				case entry := <-l.logChan:
					l.addEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) addEntry(entry LogEntry) {
	l.entriesMu.Lock()
	defer l.entriesMu.Unlock()
	l.entries[l.writeIndex] = entry
	l.writeIndex = (l.writeIndex + 1) % l.maxEntries
	if l.entryCount < l.maxEntries {
		l.entryCount++
	}
}

// Log enqueues a log entry if the component is enabled and the level
// meets the configured minimum. The channel send is non-blocking: a full
// channel drops the entry rather than stalling the caller, since the
// caller may be the single-threaded script/scheduler loop.
func (l *Logger) Log(component Component, level LogLevel, message string, data map[string]interface{}) {
	l.componentMu.RLock()
	enabled := l.componentEnabled[component]
	l.componentMu.RUnlock()
	if !enabled {
		return
	}
	l.levelMu.RLock()
	minLevel := l.minLevel
	l.levelMu.RUnlock()
	if level < minLevel {
		return
	}
	entry := LogEntry{Timestamp: time.Now(), Component: component, Level: level, Message: message, Data: data}
	select {
	case l.logChan <- entry:
	default:
	}
}

// Logf is Log with fmt.Sprintf-style formatting.
func (l *Logger) Logf(component Component, level LogLevel, format string, args ...interface{}) {
	l.Log(component, level, fmt.Sprintf(format, args...), nil)
}

// SetComponentEnabled toggles logging for one component.
func (l *Logger) SetComponentEnabled(component Component, enabled bool) {
	l.componentMu.Lock()
	defer l.componentMu.Unlock()
	l.componentEnabled[component] = enabled
}

// SetMinLevel sets the minimum severity that reaches the buffer.
func (l *Logger) SetMinLevel(level LogLevel) {
	l.levelMu.Lock()
	defer l.levelMu.Unlock()
	l.minLevel = level
}

// GetEntries returns a copy of all buffered entries, oldest first.
func (l *Logger) GetEntries() []LogEntry {
	l.entriesMu.RLock()
	defer l.entriesMu.RUnlock()
	if l.entryCount == 0 {
		return []LogEntry{}
	}
	out := make([]LogEntry, l.entryCount)
	if l.entryCount < l.maxEntries {
		copy(out, l.entries[:l.entryCount])
	} else {
		for i := 0; i < l.entryCount; i++ {
			out[i] = l.entries[(l.writeIndex+i)%l.maxEntries]
		}
	}
	return out
}

// GetRecentEntries returns the most recent count entries — used by
// errs.Handler to attach "last few lines of context" to a fatal error.
func (l *Logger) GetRecentEntries(count int) []LogEntry {
	all := l.GetEntries()
	if count >= len(all) {
		return all
	}
	return all[len(all)-count:]
}

// Shutdown drains the channel and stops the processing goroutine.
func (l *Logger) Shutdown() {
	close(l.shutdown)
	l.wg.Wait()
}
