package compile

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// 构建时通过 -ldflags "-X github.com/play/contree/pkg/compile.Version=..." 注入
var (
	Name      = "contree"
	Version   = ""
	GitCommit = ""
	BuildTime = ""

	Hostname  = ""
	GoVersion = runtime.Version()
	GoOs      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

func init() {
	Hostname, _ = os.Hostname()

	// 未注入时从模块信息补全
	if info, ok := debug.ReadBuildInfo(); ok {
		if Version == "" {
			Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && GitCommit == "":
				GitCommit = s.Value
			case s.Key == "vcs.time" && BuildTime == "":
				BuildTime = s.Value
			}
		}
	}
	if Version == "" {
		Version = "(devel)"
	}
}

// Id 实例标识，Hostname.Name
func Id() string {
	return fmt.Sprintf("%s.%s", Hostname, Name)
}

func Os() string {
	return fmt.Sprintf("%s/%s", GoOs, GoArch)
}

func Print(w io.Writer) {
	fmt.Fprintf(w, "Id: %s\nVersion: %s\nGo Version: %s\nOS: %s\nGit Commit: %s\nBuild Time: %s\n",
		Id(), Version, GoVersion, Os(), GitCommit, BuildTime)
}

func Log() {
	log.Info().Str("id", Id()).Str("version", Version).Str("go_version", GoVersion).Str("os", Os()).
		Str("commit", GitCommit).Str("build_time", BuildTime).Msg("build info")
}
