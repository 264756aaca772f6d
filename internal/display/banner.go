package display

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
)

// Product is the name shown in the banner.
const Product = "videnc"

// BannerLine returns the identification line printed at startup.
func BannerLine(version string) string {
	return fmt.Sprintf("%s: Encoder Version [%s] [%s][%s][%d bit]",
		Product, version, runtime.GOOS, runtime.Version(), strconv.IntSize)
}

// WriteBanner prints the banner surrounded by blank lines.
func WriteBanner(w io.Writer, version string) error {
	_, err := fmt.Fprintf(w, "\n%s\n\n", BannerLine(version))
	return err
}
