package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

const logTimestampLayout = "2006-01-02 15:04:05"

// prettyHandler writes a header line per record followed by one indented
// line per attribute:
//
//	2026-01-02 15:04:05 INFO [batch] (2/5) – transcribed
//	    - file: /media/talk.mp4
//
// component and the file position are folded into the header. run_id is
// only printed at debug level.
type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []field
	groups    []string
	addSource bool
}

type field struct {
	key   string
	value slog.Value
}

// header collects the attributes that are rendered in the record's first line.
type header struct {
	component    string
	index, count string
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	all := slices.Clone(h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		all = appendAttr(all, h.groups, attr)
		return true
	})

	var head header
	fields := make([]field, 0, len(all))
	for _, f := range all {
		switch f.key {
		case FieldComponent:
			if head.component == "" {
				head.component = plain(f.value)
			}
		case FieldFileIndex:
			head.index = plain(f.value)
		case FieldFileCount:
			head.count = plain(f.value)
		case FieldRunID:
			if record.Level < slog.LevelInfo {
				fields = append(fields, f)
			}
		default:
			fields = append(fields, f)
		}
	}

	var b strings.Builder
	h.writeHeader(&b, record, head)
	for _, f := range lastWins(fields) {
		fmt.Fprintf(&b, "    - %s: %s\n", f.key, quoted(plain(f.value)))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, b.String())
	return err
}

func (h *prettyHandler) writeHeader(b *strings.Builder, record slog.Record, head header) {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	b.WriteString(ts.Local().Format(logTimestampLayout))
	b.WriteString(" " + levelLabel(record.Level))
	if head.component != "" {
		b.WriteString(" [" + head.component + "]")
	}
	if head.index != "" && head.count != "" {
		b.WriteString(" (" + head.index + "/" + head.count + ")")
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(" – " + msg)
	if src := record.Source(); h.addSource && src != nil {
		fmt.Fprintf(b, " [%s:%d]", filepath.Base(src.File), src.Line)
	}
	b.WriteByte('\n')
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = slices.Clone(h.attrs)
	for _, attr := range attrs {
		clone.attrs = appendAttr(clone.attrs, h.groups, attr)
	}
	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(slices.Clone(h.groups), name)
	return &clone
}

// appendAttr flattens groups into dotted keys.
func appendAttr(dst []field, groups []string, attr slog.Attr) []field {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			groups = append(slices.Clone(groups), attr.Key)
		}
		for _, child := range value.Group() {
			dst = appendAttr(dst, groups, child)
		}
		return dst
	}
	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	return append(dst, field{key: key, value: value})
}

// lastWins drops repeated keys, keeping the most recent value at the
// position the key first appeared.
func lastWins(fields []field) []field {
	pos := make(map[string]int, len(fields))
	out := fields[:0:0]
	for _, f := range fields {
		if f.key == "" {
			continue
		}
		if i, ok := pos[f.key]; ok {
			out[i] = f
			continue
		}
		pos[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func plain(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().Local().Format(logTimestampLayout)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func quoted(s string) string {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r < ' ' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
