package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the ANSI codes one console theme uses.
type palette struct {
	fg        string
	time      string
	component [3]string
	value     string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

var palettes = map[string]palette{
	// Gruvbox Dark: warm, muted
	"gruvbox": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;108m",
		component: [3]string{"\x1b[38;5;208m", "\x1b[38;5;214m", "\x1b[38;5;175m"},
		value:     "\x1b[38;5;109m",
		warn:      "\x1b[38;5;214m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;88m",
	},
	// Everforest Dark: forest greens
	"everforest": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;107m",
		component: [3]string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
		value:     "\x1b[38;5;109m",
		warn:      "\x1b[38;5;179m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;52m",
	},
}

var currentTheme = "everforest"

// SetTheme configures the color scheme for log output.
// Unknown themes are ignored.
func SetTheme(theme string) {
	if _, ok := palettes[theme]; ok {
		currentTheme = theme
	}
}

func colors() palette {
	return palettes[currentTheme]
}

// minimalEncoder implements a compact console encoder with theme support
// Format: "13:04:35  builder  Wrote binding  module=histories path=..."
type minimalEncoder struct {
	zapcore.Encoder
	fields []zapcore.Field
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		fields:  append([]zapcore.Field(nil), enc.fields...),
	}
}

// AddString and friends are routed through With(); keep a copy so context
// fields (run_id, component) are rendered with every entry.
func (enc *minimalEncoder) AddString(key, value string) {
	enc.fields = append(enc.fields, zap.String(key, value))
	enc.Encoder.AddString(key, value)
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := buffer.NewPool().Get()

	final.AppendString(c.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only shown for WARN and above
	if ent.Level > zapcore.InfoLevel || ent.Level == zapcore.DebugLevel {
		final.AppendString("  ")
		final.AppendString(levelString(ent.Level, c))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName, c))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(c.fg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	all := append(append([]zapcore.Field(nil), enc.fields...), fields...)
	if len(all) > 0 {
		final.AppendString("  ")
		final.AppendString(formatFields(all, c))
	}

	final.AppendString("\n")
	return final, nil
}

func levelString(level zapcore.Level, c palette) string {
	switch level {
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + c.errBg + c.err + "ERROR" + colorReset
	default:
		return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
	}
}

// colorComponent picks a stable color per component name.
func colorComponent(name string, c palette) string {
	hash := 0
	for _, r := range name {
		hash += int(r)
	}
	return c.component[hash%len(c.component)]
}

// abbreviateName shortens component names: builder.render -> b.render
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// fieldValue extracts the printable value from a zap field.
func fieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.BoolType:
		return fmt.Sprintf("%t", field.Integer == 1)
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}

	// Floats, arrays and objects go through a throwaway map encoder.
	m := zapcore.NewMapObjectEncoder()
	field.AddTo(m)
	if v, ok := m.Fields[field.Key]; ok {
		return fmt.Sprintf("%v", v)
	}
	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// formatFields renders every field as key=value. Fields are never dropped.
func formatFields(fields []zapcore.Field, c palette) string {
	seen := make(map[string]string, len(fields))
	var keys []string
	for _, f := range fields {
		if _, ok := seen[f.Key]; !ok {
			keys = append(keys, f.Key)
		}
		seen[f.Key] = fieldValue(f)
	}
	// run_id first, the rest in key order
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i] == FieldRunID || keys[j] == FieldRunID {
			return keys[i] == FieldRunID && keys[j] != FieldRunID
		}
		return keys[i] < keys[j]
	})

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+c.value+seen[k]+colorReset)
	}
	return strings.Join(parts, " ")
}
