package builtin

import (
	"fmt"

	"github.com/shark8848/knowledge-transformer/internal/plugins"
)

// RegisterAll wires the full built-in plugin family into reg, in the order
// spec.md §4.B lists them. Called once at process startup by internal/app;
// every built-in is registered regardless of the module list that
// plugins.LoadModules resolves.
func RegisterAll(reg *plugins.Registry) error {
	registrars := []func(*plugins.Registry) error{
		RegisterOfficeToPDF,
		RegisterOfficeToDocx,
		RegisterHTMLToPDF,
		RegisterHTMLToMarkdown,
		RegisterSVGToPNG,
		RegisterWebpToPNG,
		RegisterGifToMP4,
		RegisterAudioToMP3,
		RegisterVideoToMP4,
		RegisterSpreadsheetToPDF,
		RegisterSpreadsheetToMarkdown,
		RegisterTextToMarkdown,
	}
	for _, fn := range registrars {
		if err := fn(reg); err != nil {
			return fmt.Errorf("register builtin plugins: %w", err)
		}
	}
	return nil
}
