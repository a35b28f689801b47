package httpclient

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Form is a multipart/form-data body carrying text fields and one file,
// which is streamed from disk rather than buffered.
type Form struct {
	fields    [][2]string
	fileField string
	filePath  string
	fileType  string
}

// NewAudioForm creates a form uploading the WAV file at path under field.
func NewAudioForm(field, path string) *Form {
	return &Form{fileField: field, filePath: path, fileType: "audio/wav"}
}

// Set adds a text field. Empty values are omitted.
func (f *Form) Set(key, value string) *Form {
	if value != "" {
		f.fields = append(f.fields, [2]string{key, value})
	}
	return f
}

// open starts streaming the form. The file is opened up front so a missing
// file fails before any request is sent.
func (f *Form) open() (io.ReadCloser, string, error) {
	file, err := os.Open(f.filePath)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", f.filePath, err)
	}
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		defer file.Close()
		pw.CloseWithError(f.write(mw, file))
	}()
	return pr, mw.FormDataContentType(), nil
}

func (f *Form) write(mw *multipart.Writer, file io.Reader) error {
	for _, kv := range f.fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return err
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(f.fileField), quoteEscaper.Replace(filepath.Base(f.filePath))))
	h.Set("Content-Type", f.fileType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	return mw.Close()
}
