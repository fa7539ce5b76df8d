// Package automation drives the ihka WebAccess portal with a real
// browser to pull the pallet movement CSV that the dashboard consumes.
package automation

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const portalURL = "https://webaccess.ihka.de/"

// downloadTimeout covers the whole portal run. Report generation on the
// server side alone can take several minutes for wide date ranges.
const downloadTimeout = 15 * time.Minute

// Request describes one report download.
type Request struct {
	User     string
	Password string
	Mandant  string
	DateFrom time.Time
	DateTo   time.Time
	SaveDir  string
	Headless bool
}

// DownloadPalletReport logs into WebAccess, opens the LZB pallet report,
// fills the date window and mandant, triggers the CSV export and waits
// for the file to land in SaveDir. Returns the path of the finished file.
func DownloadPalletReport(req Request) (string, error) {
	if req.User == "" || req.Password == "" {
		return "", fmt.Errorf("WebAccess credentials are not configured")
	}
	if _, err := os.Stat(req.SaveDir); os.IsNotExist(err) {
		if err := os.MkdirAll(req.SaveDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create download dir: %w", err)
		}
	}
	absDir, err := filepath.Abs(req.SaveDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve download dir: %w", err)
	}

	// Leakless(false) keeps antivirus tools from blocking the helper.
	u := launcher.New().
		Headless(req.Headless).
		Leakless(false).
		MustLaunch()

	browser := rod.New().ControlURL(u).MustConnect()
	defer browser.MustClose()

	err = proto.BrowserSetDownloadBehavior{
		Behavior:     proto.BrowserSetDownloadBehaviorBehaviorAllow,
		DownloadPath: absDir,
	}.Call(browser)
	if err != nil {
		return "", fmt.Errorf("failed to route downloads to %s: %w", absDir, err)
	}

	log.Println("opening WebAccess login page...")
	page := browser.MustPage(portalURL)
	page.MustWaitStable()

	if err := rod.Try(func() {
		page.MustElement("[name='USER']").MustInput(req.User)
		page.MustElement("[name='PASSWORD']").MustInput(req.Password)
	}); err != nil {
		return "", fmt.Errorf("login form not found: %w", err)
	}
	if req.Mandant != "" {
		// Some portal versions ask for the mandant already at login.
		_ = rod.Try(func() {
			page.MustElement("[name='MANDANT']").MustInput(req.Mandant)
		})
	}
	if err := rod.Try(func() {
		page.MustElementR("input, button", "Anmelden|Login").MustClick()
	}); err != nil {
		return "", fmt.Errorf("login button not found: %w", err)
	}
	page.MustWaitStable()

	log.Println("navigating to the LZB pallet report...")
	if err := rod.Try(func() {
		page.MustElementR("a, span, div", "Ihka").MustClick()
		page.MustWaitStable()
		page.MustElementR("a, span, div", "LZB").MustClick()
		page.MustWaitStable()
		page.MustElementR("a, span, div", "PIDs").MustClick()
	}); err != nil {
		return "", fmt.Errorf("report menu not found (login may have failed): %w", err)
	}
	page.MustWaitStable()

	if err := rod.Try(func() {
		from := page.MustElement("[name='DATEFROM']")
		from.MustSelectAllText().MustInput(req.DateFrom.Format("02.01.2006"))
		to := page.MustElement("[name='DATEUNTIL']")
		to.MustSelectAllText().MustInput(req.DateTo.Format("02.01.2006"))
	}); err != nil {
		return "", fmt.Errorf("date fields not found on report page: %w", err)
	}
	if req.Mandant != "" {
		_ = rod.Try(func() {
			page.MustElement("[name='MANDANT']").MustSelectAllText().MustInput(req.Mandant)
		})
	}

	existing, err := listFiles(absDir)
	if err != nil {
		return "", err
	}

	go page.MustHandleDialog()

	log.Println("triggering CSV export...")
	if err := rod.Try(func() {
		page.MustElementR("input, button, a", "CSV|Export|Download").MustClick()
	}); err != nil {
		return "", fmt.Errorf("export button not found: %w", err)
	}

	path, err := waitForNewFile(absDir, existing, downloadTimeout)
	if err != nil {
		return "", err
	}
	log.Printf("download finished: %s", path)
	return path, nil
}

func listFiles(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list download dir: %w", err)
	}
	out := make(map[string]bool, len(entries))
	for _, e := range entries {
		out[e.Name()] = true
	}
	return out, nil
}

// waitForNewFile polls the dir for a file that was not there before the
// click and whose size has stopped growing. Browser temp names
// (.crdownload, .part, .tmp) never count as finished.
func waitForNewFile(dir string, existing map[string]bool, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	lastSizes := make(map[string]int64)

	for time.Now().Before(deadline) {
		time.Sleep(2 * time.Second)

		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", fmt.Errorf("failed to poll download dir: %w", err)
		}
		for _, e := range entries {
			name := e.Name()
			if existing[name] || e.IsDir() || isPartialName(name) {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if prev, seen := lastSizes[name]; seen && prev == info.Size() && info.Size() > 0 {
				return filepath.Join(dir, name), nil
			}
			lastSizes[name] = info.Size()
		}
	}
	return "", fmt.Errorf("download did not finish within %s", timeout)
}

func isPartialName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".crdownload") ||
		strings.HasSuffix(lower, ".part") ||
		strings.HasSuffix(lower, ".tmp")
}

// CleanupDownloads removes files older than maxAge from the download dir
// so abandoned reports do not pile up.
func CleanupDownloads(dir string, maxAge time.Duration) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list download dir: %w", err)
	}
	cutoff := time.Now().Add(-maxAge)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			log.Printf("WARN: failed to remove stale download %s: %v", e.Name(), err)
		}
	}
	return nil
}
