package directive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Format selects how directives are written.
type Format string

const (
	// FormatLines writes one "<prefix><body>" line per directive.
	FormatLines Format = "lines"
	// FormatCargo writes cargo build-script lines.
	FormatCargo Format = "cargo"
	// FormatLDFlags writes a single value for `go build -ldflags`.
	FormatLDFlags Format = "ldflags"
	// FormatJSON writes the directive list as JSON.
	FormatJSON Format = "json"
)

// RenderOptions tune the output of Render.
type RenderOptions struct {
	// Prefix is prepended to every line in FormatLines.
	Prefix string
	// ConstantsPackage is the import path used for -X bindings.
	ConstantsPackage string
}

// Render writes ds to w in the given format.
func Render(w io.Writer, format Format, ds []Directive, opts RenderOptions) error {
	switch format {
	case FormatLines, "":
		for _, d := range ds {
			if _, err := fmt.Fprintf(w, "%s%s\n", opts.Prefix, d.Body()); err != nil {
				return err
			}
		}
		return nil
	case FormatCargo:
		for _, d := range ds {
			if _, err := fmt.Fprintln(w, CargoLine(d)); err != nil {
				return err
			}
		}
		return nil
	case FormatLDFlags:
		flags, err := LDFlags(ds, opts.ConstantsPackage)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, flags)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ds)
	default:
		return fmt.Errorf("unknown directive format %q", format)
	}
}

// CargoLine renders d as a cargo build-script instruction.
func CargoLine(d Directive) string {
	switch d.Kind {
	case KindLinkLib:
		if d.LinkKind != LinkDefault {
			return fmt.Sprintf("cargo:rustc-link-lib=%s=%s", d.LinkKind, d.Name)
		}
		return "cargo:rustc-link-lib=" + d.Name
	case KindLinkSearch:
		return "cargo:rustc-link-search=" + d.Value
	case KindRerunIfChanged:
		return "cargo:rerun-if-changed=" + d.Value
	case KindRerunIfEnvChanged:
		return "cargo:rerun-if-env-changed=" + d.Name
	case KindConstant:
		return fmt.Sprintf("cargo:rustc-env=%s=%s", d.Name, d.Value)
	case KindWarning:
		return "cargo:warning=" + d.Value
	default:
		return "cargo:warning=unknown directive " + string(d.Kind)
	}
}

// ErrUnquotable reports a value the go command's flag splitter cannot
// represent: it needs quoting but contains both quote characters.
var ErrUnquotable = errors.New("value cannot be quoted for -ldflags")

// LDFlags renders constants as -X bindings into pkg and link directives as
// -extldflags. Triggers and warnings have no ldflags form and are dropped.
func LDFlags(ds []Directive, pkg string) (string, error) {
	var flags, ext []string
	for _, d := range ds {
		switch d.Kind {
		case KindConstant:
			x, err := quoteFlag(fmt.Sprintf("%s.%s=%s", pkg, d.Name, d.Value))
			if err != nil {
				return "", fmt.Errorf("constant %s: %w", d.Name, err)
			}
			flags = append(flags, "-X", x)
		case KindLinkSearch:
			ext = append(ext, "-L"+d.Value)
		case KindLinkLib:
			if d.LinkKind == LinkFramework {
				ext = append(ext, "-framework", d.Name)
			} else {
				ext = append(ext, "-l"+d.Name)
			}
		}
	}
	if len(ext) > 0 {
		e, err := quoteFlag(strings.Join(ext, " "))
		if err != nil {
			return "", fmt.Errorf("extldflags: %w", err)
		}
		flags = append(flags, "-extldflags", e)
	}
	return strings.Join(flags, " "), nil
}

// quoteFlag quotes s for the go command's flag splitter. A field is taken
// verbatim up to whitespace unless it starts with a quote, in which case it
// runs to the next identical quote. There are no escapes.
func quoteFlag(s string) (string, error) {
	if s != "" && !strings.ContainsAny(s, " \t\n\r\v\f") && s[0] != '\'' && s[0] != '"' {
		return s, nil
	}
	switch {
	case !strings.Contains(s, "'"):
		return "'" + s + "'", nil
	case !strings.Contains(s, `"`):
		return `"` + s + `"`, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnquotable, s)
	}
}
