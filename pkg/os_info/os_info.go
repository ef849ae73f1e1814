package osinfo

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/matishsiao/goInfo"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/ini.v1"
)

const etcOsRelease = "/etc/os-release"

type Info struct {
	Kernel              string
	Core                string
	Distribution        string
	DistributionVersion string
	DistributionLike    []string
	Platform            string
	OS                  string
	Hostname            string
	CPUs                int
}

func (i Info) String() string {
	b := strings.Builder{}
	b.Grow(256) //nolint:gomnd

	b.WriteString("Kernel: ")
	b.WriteString(i.Kernel)
	b.WriteString("\nDistribution: ")
	b.WriteString(i.Distribution)
	b.WriteString("\nDistributionVersion: ")
	b.WriteString(i.DistributionVersion)
	b.WriteString("\nPlatform: ")
	b.WriteString(i.Platform)
	b.WriteString("\nOS: ")
	b.WriteString(i.OS)
	b.WriteString("\nHostname: ")
	b.WriteString(i.Hostname)
	b.WriteString("\nCPUs: ")
	b.WriteString(strconv.Itoa(i.CPUs))

	return b.String()
}

func (i Info) IsWindows() bool {
	return i.Distribution == "windows"
}

// IsFamily reports whether the distribution or one of its ID_LIKE parents is in ids.
func (i Info) IsFamily(ids ...string) bool {
	if lo.Contains(ids, i.Distribution) {
		return true
	}

	return len(lo.Intersect(ids, i.DistributionLike)) > 0
}

func GetOSInfo() (Info, error) {
	gi, err := goInfo.GetInfo()
	if err != nil {
		return Info{}, err
	}

	result := Info{
		Kernel:   gi.Kernel,
		Core:     gi.Core,
		Platform: normalizePlatform(gi.Platform),
		OS:       gi.OS,
		Hostname: gi.Hostname,
		CPUs:     gi.CPUs,
	}

	switch {
	case runtime.GOOS == "windows":
		result.Distribution = "windows"
		result.DistributionVersion = gi.Core
	case gi.OS == "GNU/Linux":
		data, err := os.ReadFile(etcOsRelease)
		if err != nil {
			return result, errors.WithMessage(err, "failed to read os-release")
		}
		dist, err := parseOSRelease(data)
		if err != nil {
			return result, err
		}
		result.Distribution = dist.ID
		result.DistributionVersion = dist.Version
		result.DistributionLike = dist.Like
	default:
		result.Distribution = strings.ToLower(gi.OS)
		result.DistributionVersion = gi.Kernel
	}

	return result, nil
}

func normalizePlatform(platform string) string {
	switch platform {
	case "", "unknown":
		return runtime.GOARCH
	case "x86_64":
		return "amd64"
	case "i686", "i386":
		return "386"
	case "aarch64":
		return "arm64"
	case "armv7l":
		return "arm"
	}

	return platform
}

type distInfo struct {
	ID      string
	Version string
	Like    []string
}

// parseOSRelease reads the KEY=value pairs of os-release(5).
func parseOSRelease(data []byte) (distInfo, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, data)
	if err != nil {
		return distInfo{}, errors.WithMessage(err, "failed to parse os-release")
	}

	section := f.Section(ini.DefaultSection)
	value := func(key string) string {
		return strings.ToLower(strings.Trim(section.Key(key).String(), `"'`))
	}

	result := distInfo{
		ID:      value("ID"),
		Version: value("VERSION_ID"),
		Like:    strings.Fields(value("ID_LIKE")),
	}
	if result.ID == "" {
		return distInfo{}, errors.New("unknown operating system")
	}
	if result.Version == "" {
		result.Version = value("VERSION_CODENAME")
	}

	return result, nil
}
