// Package flagx lets the client and server config loaders each parse their
// own slice of a shared command line.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps the arguments that name one of allowedFlags. A bare flag
// takes the next argument along as its value unless that argument starts
// with '-'. The "-name=value" form is matched on the part before '='.
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if allowed[name] {
				out = append(out, arg)
			}
			continue
		}
		if !allowed[arg] {
			continue
		}

		out = append(out, arg)
		if next := i + 1; next < len(args) && !strings.HasPrefix(args[next], "-") {
			out = append(out, args[next])
			i = next
		}
	}
	return out
}

// IsSet reports whether the flag called name was given on the command line
// parsed by fs, as opposed to holding its default.
func IsSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// ConfigPath returns the config file named by -c or -config, or "" when
// neither is given. When both appear the last one wins. JSON and YAML are
// told apart by the caller.
func ConfigPath() string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to the config file")
	fs.StringVar(&path, "c", "", "path to the config file (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], []string{"-c", "-config"}))

	return path
}
