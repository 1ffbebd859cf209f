package where

import (
	"os"
	"strings"
	"testing"

	"github.com/qarqun/NuvioStreaming/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPaths(t *testing.T) {
	Convey("Path resolvers", t, func() {
		Convey("Config honors the override environment variable", func() {
			dir := t.TempDir()
			So(os.Setenv(EnvConfigPath, dir), ShouldBeNil)
			defer os.Unsetenv(EnvConfigPath)

			So(Config(), ShouldEqual, dir)
		})

		Convey("Plugins lives under the config directory", func() {
			dir := t.TempDir()
			So(os.Setenv(EnvConfigPath, dir), ShouldBeNil)
			defer os.Unsetenv(EnvConfigPath)

			So(strings.HasPrefix(Plugins(), dir), ShouldBeTrue)
		})

		Convey("Cache path carries the application identifier", func() {
			So(strings.Contains(Cache(), constant.Nuvio), ShouldBeTrue)
		})

		Convey("Manifests lives under the cache directory", func() {
			So(strings.HasPrefix(Manifests(), Cache()), ShouldBeTrue)
		})
	})
}
