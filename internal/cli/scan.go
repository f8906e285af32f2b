package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mikimauro/scanbiz/internal/images"
	"github.com/mikimauro/scanbiz/internal/models"
	"github.com/mikimauro/scanbiz/internal/scanner"
)

// Scan asks for an image, stores it, sends it to the scan service and opens
// the result in EDIT or DOC_EDIT. Any failure returns to LIST.
func (a *App) Scan(ctx context.Context, mode string) error {
	if err := a.ctrl.OpenScanner(models.ScanMode(strings.ToUpper(mode))); err != nil {
		return err
	}

	path, err := GetSimpleText(a.reader, "Image path (empty to cancel)", a.out)
	if err != nil || path == "" {
		return a.ctrl.CancelScan()
	}

	result, err := a.capture(ctx, path)
	if err != nil {
		_ = a.ctrl.CancelScan()
		return err
	}
	return a.completeScan(ctx, result)
}

// capture stores the image only after a successful scan.
func (a *App) capture(ctx context.Context, path string) (models.ScanResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ScanResult{}, fmt.Errorf("read image: %w", err)
	}
	name := filepath.Base(path)

	fmt.Fprintln(a.out, "Scanning...")
	result, err := a.scanner.Scan(ctx, scanner.Request{
		Mode:        a.ctrl.ScanMode(),
		Image:       data,
		ContentType: images.ContentType(name),
	})
	if err != nil {
		return models.ScanResult{}, fmt.Errorf("scan: %w", err)
	}

	ref, err := a.images.Put(ctx, name, data)
	if err != nil {
		return models.ScanResult{}, fmt.Errorf("store image: %w", err)
	}
	if result.ImageURL == "" {
		result.ImageURL = ref
	}
	if a.ctrl.ScanMode() == models.ScanModeText && !result.IsCode {
		result.IsDoc = true
	}
	return result, nil
}

// Intake opens a saved scan result as if it had just been captured.
func (a *App) Intake(ctx context.Context, path string) error {
	result, err := scanner.ReadResult(path)
	if err != nil {
		return err
	}
	mode := models.ScanModeCard
	if result.IsDoc {
		mode = models.ScanModeText
	}
	if err := a.ctrl.OpenScanner(mode); err != nil {
		return err
	}
	return a.completeScan(ctx, result)
}

func (a *App) completeScan(ctx context.Context, result models.ScanResult) error {
	if err := a.ctrl.CompleteScan(ctx, result); err != nil {
		return err
	}
	if a.ctrl.View() == models.ViewEdit {
		return a.editForm(ctx)
	}
	if err := a.Show(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Use 'title' or 'text' to edit, then 'save'.")
	return nil
}
