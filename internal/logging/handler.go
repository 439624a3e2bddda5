package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// palette holds the colors used by Handler. A nil palette means plain text.
type palette struct {
	time     *color.Color
	trace    *color.Color
	debug    *color.Color
	info     *color.Color
	warn     *color.Color
	err      *color.Color
	critical *color.Color
	key      *color.Color
}

func newPalette() *palette {
	return &palette{
		time:     color.New(color.FgHiBlack),
		trace:    color.New(color.FgHiBlack),
		debug:    color.New(color.FgMagenta),
		info:     color.New(color.FgGreen),
		warn:     color.New(color.FgYellow),
		err:      color.New(color.FgRed, color.Bold),
		critical: color.New(color.FgWhite, color.BgRed, color.Bold),
		key:      color.New(color.FgCyan),
	}
}

func (p *palette) level(l slog.Level) *color.Color {
	switch {
	case l >= LevelCritical:
		return p.critical
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// Handler implements slog.Handler for the console. Lines look like
//
//	2026-01-02 15:04:05 INFO  moved file source=/src/docs/a.txt
//
// Colors are used when the writer supports them. Values containing spaces
// or quotes are quoted so file names stay readable.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	colors *palette

	// prefix holds the attributes added through WithAttrs, already rendered.
	prefix string
	groups []string
}

// NewHandler creates a new console handler writing to out.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	h := &Handler{
		opts: *opts,
		out:  out,
		mu:   &sync.Mutex{},
	}
	if SupportsColor(out) {
		h.colors = newPalette()
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats r into a single line and writes it with one call.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(h.paint(h.timeColor(), r.Time.Format(time.DateTime)))
		buf.WriteByte(' ')
	}

	name := fmt.Sprintf("%-5s", LevelName(r.Level))
	if h.colors != nil {
		name = h.colors.level(r.Level).Sprint(name)
	}
	buf.WriteString(name)
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	buf.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, h.groups, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *Handler) timeColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.time
}

func (h *Handler) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func (h *Handler) appendAttr(buf *bytes.Buffer, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(append([]string(nil), groups...), a.Key)
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, sub, ga)
		}
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	if h.colors != nil {
		key = h.colors.key.Sprint(key)
	}

	fmt.Fprintf(buf, " %s=%s", key, formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindTime:
		return v.Time().Format(time.DateTime)
	default:
		s = fmt.Sprint(v.Any())
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// WithAttrs returns a new Handler that renders attrs on every line.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	buf.WriteString(h.prefix)
	for _, a := range attrs {
		h.appendAttr(&buf, h.groups, a)
	}
	newH := *h
	newH.prefix = buf.String()
	return &newH
}

// WithGroup returns a new Handler with the given group name.
// Groups are implemented by prefixing keys.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newH := *h
	newH.groups = make([]string, len(h.groups)+1)
	copy(newH.groups, h.groups)
	newH.groups[len(h.groups)] = name
	return &newH
}
