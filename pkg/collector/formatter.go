package collector

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FormatHeader renders the HELP and TYPE comment lines for a family.
//
//	# HELP render_service_cpu_usage_percent CPU usage per service.
//	# TYPE render_service_cpu_usage_percent gauge
func FormatHeader(def Definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# HELP %s %s\n", def.Name, escapeHelp(def.Help))
	fmt.Fprintf(&b, "# TYPE %s %s\n", def.Name, def.Type)
	return b.String()
}

// FormatValues renders one exposition line per point:
//
//	render_service_cpu_usage_percent{service_name="web", unit="percent"} 12.5
//
// Label keys are sorted lexicographically so the output never depends on map
// iteration order. A point without labels renders as a bare name/value pair.
func FormatValues(name string, points []Point) string {
	var b strings.Builder
	for _, p := range points {
		b.WriteString(name)
		if len(p.Labels) > 0 {
			keys := make([]string, 0, len(p.Labels))
			for k := range p.Labels {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			b.WriteByte('{')
			for i, k := range keys {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, `%s="%s"`, k, escapeLabelValue(p.Labels[k]))
			}
			b.WriteByte('}')
		}
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(p.Value, 'g', -1, 64))
		b.WriteByte('\n')
	}
	return b.String()
}

// Format renders a full family block (header plus values). A result with zero
// points renders to the empty string so the family is omitted from the scrape
// body entirely.
func Format(r *Result) string {
	if r.Empty() {
		return ""
	}
	return FormatHeader(r.Definition) + FormatValues(r.Definition.Name, r.Points)
}

// escapeLabelValue escapes backslash, double quote, and newline per the
// exposition grammar.
func escapeLabelValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return strings.ReplaceAll(v, "\n", `\n`)
}

// escapeHelp escapes backslash and newline in help text.
func escapeHelp(help string) string {
	help = strings.ReplaceAll(help, `\`, `\\`)
	return strings.ReplaceAll(help, "\n", `\n`)
}
