package services

import (
	"path/filepath"
	"strings"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/models"
)

type InputType string

const (
	InputTXT  InputType = "txt"
	InputDOCX InputType = "docx"
	InputPDF  InputType = "pdf"
)

// UploadSectionName is the single section uploaded documents are placed in.
const UploadSectionName = "Content"

// InputSource is an uploaded file already read into memory.
type InputSource struct {
	Type     InputType
	Filename string
	Data     []byte
}

func GetInputTypeFromExt(filename string) (InputType, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return InputPDF, nil
	case ".docx":
		return InputDOCX, nil
	case ".txt":
		return InputTXT, nil
	default:
		return "", apperr.Validation("file", "unsupported file type, expected .pdf, .docx or .txt")
	}
}

func (t InputType) ContentType() string {
	switch t {
	case InputPDF:
		return "application/pdf"
	case InputDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain; charset=utf-8"
	}
}

// NormalizeInput extracts the text of an upload into a NormalizedDocument
// with a single "Content" section and no source URL.
func NormalizeInput(input InputSource) (*models.NormalizedDocument, error) {
	var (
		text  string
		err   error
		title string
	)

	switch input.Type {
	case InputPDF:
		title = "Uploaded PDF"
		text, err = ExtractTextFromPDF(input.Data)
	case InputDOCX:
		title = "Uploaded document"
		text, err = ExtractTextFromDOCX(input.Data)
	case InputTXT:
		title = "Uploaded document"
		text, err = ExtractTextFromTXT(input.Data)
	default:
		return nil, apperr.Validation("file", "unsupported file type")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "could not read uploaded file", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("file", "uploaded file contains no extractable text")
	}

	sections := models.NewSections()
	sections.Set(UploadSectionName, text)
	return NewDocument(title, nil, sections), nil
}
