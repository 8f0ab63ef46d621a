package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ScreenShotDebugger captures the current page into screenshots/ with a
// timestamped name. Failures are logged, never fatal.
func ScreenShotDebugger(page playwright.Page, name string) string {
	dir := "screenshots"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("⚠️ could not create screenshot dir: %v", err)
		return ""
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", name, time.Now().Format("20060102_150405")))
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		log.Printf("⚠️ screenshot failed: %v", err)
		return ""
	}
	log.Printf("📸 saved screenshot %s", path)
	return path
}
