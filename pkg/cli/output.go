package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/jguan/modelrun/pkg/gateway"
)

type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// ParseOutputFormat accepts table, json or yaml in any case.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputTable, OutputJSON, OutputYAML:
		return f, nil
	case "":
		return OutputTable, nil
	default:
		return "", fmt.Errorf("invalid output format %q (valid: table, json, yaml)", s)
	}
}

type OutputOptions struct {
	Format    OutputFormat
	Quiet     bool
	Writer    io.Writer
	ErrWriter io.Writer
}

func NewOutputOptions() *OutputOptions {
	return &OutputOptions{
		Format:    OutputTable,
		Quiet:     false,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
	}
}

func (o *OutputOptions) errWriter() io.Writer {
	if o.ErrWriter == nil {
		return os.Stderr
	}
	return o.ErrWriter
}

// Tabular values render their own table instead of going through reflection.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

func FormatOutput(data any, format OutputFormat) (string, error) {
	switch format {
	case OutputJSON:
		return formatJSON(data)
	case OutputYAML:
		return formatYAML(data)
	default:
		return formatTable(data)
	}
}

func formatJSON(data any) (string, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal JSON: %w", err)
	}
	return string(b) + "\n", nil
}

func formatYAML(data any) (string, error) {
	b, err := yaml.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal YAML: %w", err)
	}
	return string(b), nil
}

func formatTable(data any) (string, error) {
	if data == nil {
		return "", nil
	}
	if t, ok := data.(Tabular); ok {
		return renderTable(t.Header(), t.Rows()), nil
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "", nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return formatSliceTable(v), nil
	case reflect.Map:
		return formatMapTable(v), nil
	case reflect.Struct:
		return formatStructTable(v), nil
	default:
		return fmt.Sprintf("%v\n", v.Interface()), nil
	}
}

func renderTable(header []string, rows [][]string) string {
	if len(rows) == 0 {
		return "No items\n"
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	fmt.Fprintln(w, strings.Join(makeSeparators(header), "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	return sb.String()
}

func formatSliceTable(v reflect.Value) string {
	if v.Len() == 0 {
		return "No items\n"
	}

	headers := fieldNames(v.Index(0))
	rows := make([][]string, v.Len())
	for i := range rows {
		rows[i] = fieldValues(v.Index(i), headers)
	}
	return renderTable(headers, rows)
}

// formatMapTable prints key/value pairs sorted by key.
func formatMapTable(v reflect.Value) string {
	keys := make([]string, 0, v.Len())
	values := make(map[string]string, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key := fmt.Sprintf("%v", iter.Key())
		keys = append(keys, key)
		values[key] = formatValue(iter.Value().Interface())
	}
	sort.Strings(keys)

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\n", k, values[k])
	}
	w.Flush()
	return sb.String()
}

func formatStructTable(v reflect.Value) string {
	headers := fieldNames(v)
	values := fieldValues(v, headers)

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	for i, h := range headers {
		fmt.Fprintf(w, "%s\t%s\n", h, values[i])
	}
	w.Flush()
	return sb.String()
}

func jsonName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

func fieldNames(v reflect.Value) []string {
	v = indirect(v)
	if v.Kind() != reflect.Struct {
		return []string{"value"}
	}

	t := v.Type()
	var fields []string
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.IsExported() {
			fields = append(fields, jsonName(f))
		}
	}
	return fields
}

func fieldValues(v reflect.Value, fields []string) []string {
	v = indirect(v)
	values := make([]string, len(fields))

	switch v.Kind() {
	case reflect.Map:
		for i, field := range fields {
			if fv := v.MapIndex(reflect.ValueOf(field)); fv.IsValid() {
				values[i] = formatValue(fv.Interface())
			}
		}
	case reflect.Struct:
		t := v.Type()
		byName := make(map[string]int, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			byName[jsonName(t.Field(i))] = i
		}
		for i, field := range fields {
			if idx, ok := byName[field]; ok {
				values[i] = formatValue(v.Field(idx).Interface())
			}
		}
	default:
		if len(values) > 0 && v.IsValid() {
			values[0] = formatValue(v.Interface())
		}
	}
	return values
}

func formatValue(v any) string {
	if v == nil {
		return ""
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
		v = rv.Interface()
	}
	if rv.Kind() == reflect.String {
		return rv.String()
	}

	switch val := v.(type) {
	case fmt.Stringer:
		return val.String()
	case []string:
		return strings.Join(val, ",")
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}

func makeSeparators(header []string) []string {
	seps := make([]string, len(header))
	for i, h := range header {
		seps[i] = strings.Repeat("-", max(len(h), 4))
	}
	return seps
}

func PrintOutput(data any, opts *OutputOptions) error {
	if opts.Quiet {
		return nil
	}

	output, err := FormatOutput(data, opts.Format)
	if err != nil {
		return err
	}

	fmt.Fprint(opts.Writer, output)
	return nil
}

func errorPayload(err error) map[string]any {
	payload := map[string]any{"message": err.Error()}
	var info *gateway.ErrorInfo
	if errors.As(err, &info) {
		payload["code"] = info.Code
		payload["message"] = info.Message
		if info.Details != nil {
			payload["details"] = info.Details
		}
	}
	return map[string]any{"success": false, "error": payload}
}

// PrintError writes err to the error writer. Quiet mode does not silence it.
func PrintError(err error, opts *OutputOptions) {
	w := opts.errWriter()
	switch opts.Format {
	case OutputJSON:
		b, _ := json.MarshalIndent(errorPayload(err), "", "  ")
		fmt.Fprintln(w, string(b))
	case OutputYAML:
		b, _ := yaml.Marshal(errorPayload(err))
		fmt.Fprint(w, string(b))
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// PrintWarning writes a one-line warning to the error writer.
func PrintWarning(message string, opts *OutputOptions) {
	if opts.Quiet {
		return
	}
	fmt.Fprintf(opts.errWriter(), "Warning: %s\n", message)
}
