// Package flagx pre-scans command-line arguments for the few flags that must
// be known before the command tree is built (config and dotenv file paths).
package flagx

import "strings"

// FilterArgs keeps only the allowed flags (and their values) from args.
//
// Recognised forms:
//
//	-c conf.json
//	--config=conf.json
//
// A following argument is treated as the value unless it starts with '-'.
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, ok := strings.Cut(arg, "="); ok {
			if allowed[name] {
				out = append(out, arg)
			}
			continue
		}

		if !allowed[arg] {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// LookupValue returns the value of the last occurrence of any of names in
// args, or "" when none carries a value.
func LookupValue(args []string, names ...string) string {
	filtered := FilterArgs(args, names)

	var value string
	for i := 0; i < len(filtered); i++ {
		if _, v, ok := strings.Cut(filtered[i], "="); ok {
			value = v
			continue
		}
		if i+1 < len(filtered) && !strings.HasPrefix(filtered[i+1], "-") {
			value = filtered[i+1]
			i++
		}
	}
	return value
}

// ConfigFileFlag returns the JSON config path given via -c, -config or --config.
func ConfigFileFlag(args []string) string {
	return LookupValue(args, "-c", "-config", "--config")
}

// EnvFileFlag returns the dotenv path given via --env-file.
func EnvFileFlag(args []string) string {
	return LookupValue(args, "-env-file", "--env-file")
}
