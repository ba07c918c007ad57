// Package normalizer rewrites the back-office CIERRE shorthand into the
// canonical cali/calimono command form. Input that carries no shorthand
// marker passes through untouched, which makes normalization idempotent.
package normalizer

import (
	"regexp"
	"strings"

	"github.com/agusdc111/arreglocuil/pkg/domainerrors"
)

// Kind discriminates the normalization outcome.
type Kind int

const (
	// KindPassthrough: no shorthand detected, input returned as-is.
	KindPassthrough Kind = iota
	// KindCommand: shorthand rewritten into a canonical command.
	KindCommand
	// KindHelp: a bare CIERRE marker asking for usage.
	KindHelp
)

// Result is the outcome of normalizing one message.
type Result struct {
	Kind    Kind   `json:"kind"`
	Command string `json:"command,omitempty"`
	Help    string `json:"help,omitempty"`
}

const trimSet = "\"'`-_*.,;:!¡¿?~+=[]{}()<>|\\/ \t\r\n"

var documentRe = regexp.MustCompile(`^(\d{8}|\d{11})$`)

// HelpText lists the accepted CIERRE formats.
const HelpText = `FORMATO CIERRE

Formatos válidos:
  CIERRE
  NOMBRE
  DNI/CUIL

  CIERRE
  DNI/CUIL
  NOMBRE

  CIERRE
  DNI/CUIL

  CIERRE DNI/CUIL
  CIERRE NOMBRE DNI/CUIL
  CIERRE DNI/CUIL NOMBRE

Ejemplos:
  CIERRE / GARCIA JUAN / 20304050
  CIERRE 20304050 GARCIA JUAN
  CIERRE MONO seguido de DNI y nombre para monotributistas.`

// Normalize rewrites the CIERRE / CIERRE MONO shorthand into the canonical
// "cali <documento> [nombre]" / "calimono <documento> [nombre]" form. A
// malformed shorthand returns a bad-request error; input without markers
// is returned unchanged.
func Normalize(input string) (Result, error) {
	lines := cleanLines(input)
	if len(lines) == 0 {
		return Result{Kind: KindPassthrough, Command: input}, nil
	}

	// CIERRE MONO wins over plain CIERRE when both markers appear.
	if isClosureMono(lines[0]) {
		switch {
		case len(lines) == 1:
			return normalizeInline(lines[0], "calimono", true)
		case len(lines) <= 3:
			return normalizeBlock(lines, "calimono")
		}
		// Longer mono blocks carry extra content; leave them alone.
		return Result{Kind: KindPassthrough, Command: input}, nil
	}

	head := strings.ToUpper(lines[0])
	switch {
	case len(lines) == 1 && head == "CIERRE":
		return Result{Kind: KindHelp, Help: HelpText}, nil
	case len(lines) >= 2 && len(lines) <= 3 && head == "CIERRE":
		return normalizeBlock(lines, "cali")
	case len(lines) == 1 && strings.HasPrefix(head, "CIERRE "):
		return normalizeInline(lines[0], "cali", false)
	}

	return Result{Kind: KindPassthrough, Command: input}, nil
}

// cleanLines splits the input, strips decoration symbols from each line and
// drops the lines that end up empty.
func cleanLines(input string) []string {
	var out []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.Trim(line, trimSet)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// isClosureMono reports whether a line carries both markers, in any order
// and with any spacing.
func isClosureMono(line string) bool {
	compact := strings.ToUpper(strings.Join(strings.Fields(line), ""))
	return strings.Contains(compact, "CIERRE") && strings.Contains(compact, "MONO")
}

// parseDocument strips hyphens and accepts exactly 8 (DNI) or 11 (CUIL)
// digits.
func parseDocument(s string) (string, bool) {
	clean := strings.ReplaceAll(s, "-", "")
	if documentRe.MatchString(clean) {
		return clean, true
	}
	return "", false
}

// normalizeBlock handles the multiline forms: marker line plus a document
// line, optionally with a name line on either side. When two documents
// appear the first one wins.
func normalizeBlock(lines []string, command string) (Result, error) {
	if len(lines) == 2 {
		doc, ok := parseDocument(lines[1])
		if !ok {
			return Result{}, formatError(command, "si usa 2 líneas, la segunda debe ser un DNI (8 dígitos) o CUIL (11 dígitos)")
		}
		return commandResult(command, doc, ""), nil
	}

	doc2, ok2 := parseDocument(lines[1])
	doc3, ok3 := parseDocument(lines[2])
	switch {
	case ok2 && !ok3:
		return commandResult(command, doc2, lines[2]), nil
	case !ok2 && ok3:
		return commandResult(command, doc3, lines[1]), nil
	case ok2 && ok3:
		return commandResult(command, doc2, ""), nil
	}
	return Result{}, formatError(command, "no se detectó un DNI (8 dígitos) o CUIL (11 dígitos) válido")
}

// normalizeInline handles the single-line forms. The marker words are
// removed and the first document found among the remaining words wins;
// everything else becomes the name.
func normalizeInline(line, command string, mono bool) (Result, error) {
	var args []string
	for _, w := range strings.Fields(line) {
		upper := strings.ToUpper(w)
		if upper == "CIERRE" || (mono && upper == "MONO") {
			continue
		}
		args = append(args, w)
	}

	if len(args) == 0 {
		return Result{}, formatError(command, "debe proporcionar al menos un DNI o CUIL")
	}
	if len(args) == 1 {
		doc, ok := parseDocument(args[0])
		if !ok {
			return Result{}, formatError(command, "\""+args[0]+"\" no es un DNI (8 dígitos) o CUIL (11 dígitos) válido")
		}
		return commandResult(command, doc, ""), nil
	}

	for i, a := range args {
		doc, ok := parseDocument(a)
		if !ok {
			continue
		}
		name := strings.Join(append(append([]string{}, args[:i]...), args[i+1:]...), " ")
		return commandResult(command, doc, name), nil
	}
	return Result{}, formatError(command, "no se detectó un DNI (8 dígitos) o CUIL (11 dígitos) válido")
}

func commandResult(command, doc, name string) Result {
	c := command + " " + doc
	if name != "" {
		c += " " + name
	}
	return Result{Kind: KindCommand, Command: c}
}

func formatError(command, detail string) error {
	label := "CIERRE"
	if command == "calimono" {
		label = "CIERRE MONO"
	}
	return domainerrors.New(domainerrors.CodeBadRequest, "formato "+label+" incorrecto: "+detail)
}
