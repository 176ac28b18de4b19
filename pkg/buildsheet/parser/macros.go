package parser

import (
	"archive/zip"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/models"
)

// vbaProjectPath is where xlsx/xlsm containers store the VBA project.
const vbaProjectPath = "xl/vbaProject.bin"

// ExtractMacroBlob reports whether the workbook embeds a VBA project and
// how large it is. The blob is a compiled binary stream; its content is
// never decoded, only its presence and size are recorded.
func ExtractMacroBlob(xlsxPath string) (models.MacroBlob, error) {
	r, err := zip.OpenReader(xlsxPath)
	if err != nil {
		return models.MacroBlob{}, err
	}
	defer r.Close()

	for _, file := range r.File {
		if file.Name == vbaProjectPath {
			return models.MacroBlob{
				Present:   true,
				SizeBytes: int64(file.UncompressedSize64),
			}, nil
		}
	}

	return models.MacroBlob{}, nil
}
