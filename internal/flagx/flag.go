// Package flagx lets several configuration layers share os.Args: each layer
// picks out only the flags it owns and parses them with its own FlagSet.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// flagName strips one or two leading dashes; "-c", "--c" and "c" all yield "c".
func flagName(s string) string {
	return strings.TrimPrefix(strings.TrimPrefix(s, "-"), "-")
}

// FilterArgs keeps the arguments that belong to the allowed flags and drops
// everything else, positional arguments included.
//
// Allowed names may be written with or without dashes; a flag matches no
// matter whether it was passed as -name or --name. Two forms are recognised:
//
//	-b 127.0.0.1:50051     value in the next argument
//	--config=conf.json     value after '='
//
// A following argument that starts with '-' is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[flagName(f)] = true
	}

	filtered := []string{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if !allowed[flagName(name)] {
			continue
		}
		filtered = append(filtered, arg)
		if hasValue {
			continue
		}
		if next := i + 1; next < len(args) && !strings.HasPrefix(args[next], "-") {
			filtered = append(filtered, args[next])
			i = next
		}
	}

	return filtered
}

// ConfigFileFromArgs returns the JSON config path given via -c or -config,
// or an empty string.
func ConfigFileFromArgs(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(discard{})
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"c", "config"}))

	return path
}

// JsonConfigFlags is ConfigFileFromArgs applied to the process arguments.
func JsonConfigFlags() string {
	return ConfigFileFromArgs(os.Args[1:])
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
