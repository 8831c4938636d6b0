package main

import (
	"fmt"
	"strings"

	"hdrview/config"
)

// helpLines describes the key bindings for the panel and the startup banner.
func helpLines(k config.Keys) []string {
	key := strings.ToUpper
	return []string{
		fmt.Sprintf("%s%s%s%s move camera, mouse look, scroll zoom",
			key(k.Forward), key(k.Left), key(k.Backward), key(k.Right)),
		fmt.Sprintf("%s panel   %s hdr   %s mouse look", key(k.ToggleUI), key(k.ToggleHDR), key(k.ToggleCamera)),
		fmt.Sprintf("%s/%s exposure", key(k.ExposureUp), key(k.ExposureDown)),
		fmt.Sprintf("%s%s %s%s %s%s move object   %s %s scale",
			key(k.ObjectLeft), key(k.ObjectRight),
			key(k.ObjectForward), key(k.ObjectBack),
			key(k.ObjectUp), key(k.ObjectDown),
			k.ScaleDown, k.ScaleUp),
		fmt.Sprintf("%s or %s quit", key(k.Exit), key(k.ExitAlt)),
	}
}

func printBanner(k config.Keys) {
	fmt.Println("=== HDR Viewer ===")
	fmt.Println("Controls:")
	for _, l := range helpLines(k) {
		fmt.Println("  " + l)
	}
}
