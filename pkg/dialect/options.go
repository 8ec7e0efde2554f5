package dialect

import (
	"strconv"
	"strings"
)

// VersionEnvKey overrides the target engine version.
const VersionEnvKey = "LEAPCUBE_DIALECT_VERSION"

// Options are resolved once when a dialect is opened.
type Options struct {
	// Version is the target engine version, e.g. "11.2.0.4". Empty or
	// unparsable versions select the dialect's modern capability set.
	Version string
}

// OptionsFromEnv reads Options using lookup, typically os.LookupEnv.
func OptionsFromEnv(lookup func(string) (string, bool)) Options {
	var opts Options
	if v, ok := lookup(VersionEnvKey); ok {
		opts.Version = strings.TrimSpace(v)
	}
	return opts
}

// ParseVersion parses the leading "major[.minor]" numbers of v.
// ok is false when v does not start with a number.
func ParseVersion(v string) (major, minor int, ok bool) {
	parts := strings.Split(strings.TrimSpace(v), ".")
	major, ok = leadingInt(parts[0])
	if !ok {
		return 0, 0, false
	}
	if len(parts) > 1 {
		minor, _ = leadingInt(parts[1])
	}
	return major, minor, true
}

// leadingInt reads the digits at the start of s ("19c" -> 19).
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

// AtLeast reports whether the configured version is >= major.minor.
// Unset or unparsable versions count as modern.
func (o Options) AtLeast(major, minor int) bool {
	gotMajor, gotMinor, ok := ParseVersion(o.Version)
	if !ok {
		return true
	}
	if gotMajor != major {
		return gotMajor > major
	}
	return gotMinor >= minor
}
