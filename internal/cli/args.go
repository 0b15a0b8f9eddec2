package cli

import "strings"

// pflag only allows single-letter shorthands, so the multi-letter short forms
// (-ep, -sen, ...) are rewritten to long flags before cobra sees them.
var legacyFlags = map[string]string{
	"-ep":   "--" + flagEndpoint,
	"-sen":  "--" + flagServiceName,
	"-spn":  "--" + flagSpanName,
	"-dur":  "--" + flagDuration,
	"-dr":   "--" + flagDryRun,
	"--dry": "--" + flagDryRun,
	"-x":    "--" + flagDebug,
	"-ts":   "--" + flagTimeShift,
	"-ptid": "--" + flagParentTraceID,
	"-tid":  "--" + flagTraceID,
}

// NormalizeArgs rewrites legacy flags to their long form. A token that is the
// value of the preceding flag is left untouched, so "--span-name -x" keeps "-x"
// as the span name.
func NormalizeArgs(args []string) []string {
	normalized := make([]string, 0, len(args))
	expectValue := false
	for i, arg := range args {
		if expectValue {
			normalized = append(normalized, arg)
			expectValue = false
			continue
		}
		if arg == "--" {
			normalized = append(normalized, args[i:]...)
			break
		}
		name, value, hasValue := strings.Cut(arg, "=")
		if long, ok := legacyFlags[name]; ok {
			arg = long
			if hasValue {
				arg += "=" + value
			}
		}
		expectValue = takesSeparateValue(arg)
		normalized = append(normalized, arg)
	}
	return normalized
}

// takesSeparateValue reports whether arg is a flag whose value is the next token.
// Every flag except help is a string flag.
func takesSeparateValue(arg string) bool {
	if arg == "-h" || arg == "--help" || strings.Contains(arg, "=") {
		return false
	}
	if strings.HasPrefix(arg, "--") {
		return len(arg) > 2
	}
	// "-H" needs the next token, "-Hk=v" or "-xTrue" carries its value.
	return strings.HasPrefix(arg, "-") && len(arg) == 2
}
