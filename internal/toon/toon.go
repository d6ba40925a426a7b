// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// guardgen reports.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/guardgen/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a Report into TOON format.
func Encode(r *model.Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("repo: %s", encodeValue(r.RepoName)))
	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(r.Root)))

	var fileRows [][]string
	for i := range r.Files {
		fi := &r.Files[i]
		fileRows = append(fileRows, []string{
			fi.Path,
			fi.Language,
			strconv.Itoa(len(fi.Callables)),
			strconv.Itoa(fi.ConfigCount()),
		})
	}
	parts = append(parts, formatTabular("files", []string{"path", "language", "callables", "configs"}, fileRows))

	var callableRows [][]string
	for i := range r.Files {
		fi := &r.Files[i]
		for j := range fi.Callables {
			c := &fi.Callables[j]
			callableRows = append(callableRows, []string{
				fi.Path,
				qualified(c),
				c.Kind,
				strconv.Itoa(c.Line),
				c.Signature,
			})
		}
	}
	parts = append(parts, formatTabular("callables", []string{"file", "name", "kind", "line", "signature"}, callableRows))

	var configRows [][]string
	for i := range r.Files {
		fi := &r.Files[i]
		for j := range fi.Callables {
			c := &fi.Callables[j]
			for k := range c.Configs {
				cfg := &c.Configs[k]
				configRows = append(configRows, []string{
					qualified(c),
					strconv.Itoa(cfg.ParamIndex),
					cfg.Param,
					cfg.FailureKind,
					cfg.Value,
					cfg.TestName,
				})
			}
		}
	}
	parts = append(parts, formatTabular("configs", []string{"callable", "index", "param", "failure", "value", "test"}, configRows, 4))

	return strings.Join(parts, "\n")
}

func qualified(c *model.Callable) string {
	if c.Class == "" {
		return c.Name
	}
	return c.Class + "." + c.Name
}

// formatTabular writes rows as a TOON table. Cells in the literalCols
// columns hold Java source literals, where null is the keyword rather than
// a string and is written bare.
func formatTabular(name string, columns []string, rows [][]string, literalCols ...int) string {
	literal := make(map[int]bool, len(literalCols))
	for _, c := range literalCols {
		literal[c] = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			if literal[i] && cell == "null" {
				encoded[i] = cell
				continue
			}
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
