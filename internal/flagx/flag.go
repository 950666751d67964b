// Package flagx lets independent components share one command line. Each
// component picks out only the flags it owns and parses those, so the
// standard flag package never fails on flags defined elsewhere.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// Pick returns the arguments in args that belong to the named flags,
// keeping their order. Names are given without dashes; "-name", "--name",
// "-name=v" and "--name=v" all match. A separate value is taken along
// unless it looks like another flag.
func Pick(args []string, names ...string) []string {
	owned := make(map[string]bool, len(names))
	for _, n := range names {
		owned[strings.TrimLeft(n, "-")] = true
	}

	picked := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !owned[name] {
			continue
		}
		picked = append(picked, arg)

		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			picked = append(picked, args[i+1])
			i++
		}
	}
	return picked
}

// ConfigPath returns the config file named by -c or -config in args, or ""
// when neither is present. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(Pick(args, "c", "config"))

	return path
}
