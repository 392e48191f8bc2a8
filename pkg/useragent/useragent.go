package useragent

import (
	"fmt"
	"runtime"

	"github.com/slidecraft/slidecraft/pkg/version"
)

var Header = fmt.Sprintf("SlideCraft/%s (%s; %s)", version.Version, runtime.GOOS, runtime.GOARCH)
